package motion

// State is the whole animated scene content: clouds, shapes and the constants that move them.
type State struct {
	Clouds []PointCloud
	Shapes []Shape
	Config Config
}

// Advance moves every cloud and shape for elapsed time t, clouds first.
//
// Parameters:
//   - t: elapsed time in seconds
func (st *State) Advance(t float64) {
	for i := range st.Clouds {
		AdvanceCloud(&st.Clouds[i], t, st.Config)
	}
	st.AdvanceShapes(t)
}

// AdvanceShapes moves only the shapes. Used when the cloud points are updated elsewhere.
func (st *State) AdvanceShapes(t float64) {
	for i := range st.Shapes {
		AdvanceShape(&st.Shapes[i], i, t, st.Config)
	}
}

// Anchor captures the current positions as the baseline of the anchored mode,
// for clouds and shapes alike.
func (st *State) Anchor() {
	for i := range st.Clouds {
		st.Clouds[i].Anchor()
	}
	for i := range st.Shapes {
		st.Shapes[i].Base = st.Shapes[i].Position
	}
}

// Clone returns a deep copy that shares no slices with st.
func (st *State) Clone() *State {
	out := &State{
		Clouds: make([]PointCloud, len(st.Clouds)),
		Shapes: append([]Shape(nil), st.Shapes...),
		Config: st.Config,
	}
	for i, c := range st.Clouds {
		out.Clouds[i] = PointCloud{
			Positions: append([]float32(nil), c.Positions...),
			Colors:    append([]float32(nil), c.Colors...),
			Rotation:  c.Rotation,
		}
		if c.base != nil {
			out.Clouds[i].base = append([]float32(nil), c.base...)
		}
	}
	return out
}
