package tonestack

// history is the 4-deep input/output delay line of the recurrence, kept as a
// ring indexed by w, the slot of the most recent sample. Shifting is replaced
// by overwriting the oldest slot and rotating w.
type history struct {
	x [Order]float64
	y [Order]float64
	w int
}

// step runs one sample of the direct-form recurrence. The sum is evaluated
// left to right in the fixed order B0..B4 then A1..A4.
func (h *history) step(c *Coefficients, x float64) float64 {
	i1 := h.w
	i2 := (h.w - 1) & (Order - 1)
	i3 := (h.w - 2) & (Order - 1)
	i4 := (h.w - 3) & (Order - 1)

	y := c.B[0]*x + c.B[1]*h.x[i1] + c.B[2]*h.x[i2] + c.B[3]*h.x[i3] + c.B[4]*h.x[i4] -
		c.A[1]*h.y[i1] - c.A[2]*h.y[i2] - c.A[3]*h.y[i3] - c.A[4]*h.y[i4]

	h.x[i4] = x
	h.y[i4] = y
	h.w = i4

	return y
}

func (h *history) reset() {
	*h = history{}
}

// state returns the delay line most recent first.
func (h *history) state() State {
	var s State
	for i := range Order {
		j := (h.w - i) & (Order - 1)
		s.X[i] = h.x[j]
		s.Y[i] = h.y[j]
	}

	return s
}

func (h *history) setState(s State) {
	h.w = 0
	for i := range Order {
		j := (-i) & (Order - 1)
		h.x[j] = s.X[i]
		h.y[j] = s.Y[i]
	}
}
