package signal

import "context"

// Feature is one named input to an external scoring model. Features are
// passed as an ordered slice; name resolution happens once, here, rather
// than inside the model adapter.
type Feature struct {
	Name  string
	Value float64
}

// Scorer is an opaque scoring capability (for example an ML model runtime
// hosted by the surrounding application). It returns a score the generator
// clamps into [-1, +1]; the runtime behind it is not this engine's concern.
type Scorer interface {
	Score(ctx context.Context, features []Feature) (float64, error)
}
