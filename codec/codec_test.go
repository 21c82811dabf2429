package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	K           int           `json:"k"`
	Centers     [][]float64   `json:"centers"`
	Cost        float64       `json:"cost"`
	CostHistory []float64     `json:"cost_history,omitempty"`
	Converged   bool          `json:"converged"`
	Duration    time.Duration `json:"duration"`
}

func sampleReport() report {
	return report{
		K:           2,
		Centers:     [][]float64{{0, 0, 0.5}, {10, 10, 10.5}},
		Cost:        1,
		CostHistory: []float64{1, 1},
		Converged:   true,
		Duration:    1500 * time.Microsecond,
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsInteroperate(t *testing.T) {
	codecs := []Codec{JSON{}, GoJSON{}}
	in := sampleReport()

	for _, enc := range codecs {
		for _, dec := range codecs {
			t.Run(enc.Name()+"->"+dec.Name(), func(t *testing.T) {
				data, err := enc.Marshal(in)
				require.NoError(t, err)

				var out report
				require.NoError(t, dec.Unmarshal(data, &out))
				assert.Equal(t, in, out)
			})
		}
	}
}

func TestSameDocument(t *testing.T) {
	in := sampleReport()
	a, err := JSON{}.Marshal(in)
	require.NoError(t, err)
	b, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestGoJSONAppend(t *testing.T) {
	dst := []byte("report=")
	out, err := GoJSON{}.Append(dst, map[string]int{"k": 3})
	require.NoError(t, err)
	assert.Equal(t, `report={"k":3}`, string(out))
}

func TestAppend(t *testing.T) {
	for _, c := range []Codec{nil, JSON{}, GoJSON{}} {
		out, err := Append(c, []byte("report="), map[string]int{"k": 1})
		require.NoError(t, err)
		assert.Equal(t, `report={"k":1}`, string(out))
	}

	_, err := Append(JSON{}, nil, make(chan int))
	assert.ErrorContains(t, err, "codec json")

	var _ Appender = GoJSON{}
}
