// Package pixel converts between images and the flat color vectors the
// clustering engine works on.
//
// Flatten walks an image row by row and yields one RGB vector per pixel with
// channels in [0, 255]. Reconstruct is the inverse: given the original bounds,
// a label per pixel and the palette, it paints every pixel with the color of
// its cluster.
package pixel
