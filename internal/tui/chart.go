package tui

// brailleDots maps (col 0-1, row 0-3) to the braille dot bit offsets.
// Braille character = U+2800 + sum of activated dot bits.
// Column 0: dots 1,2,3,7 (bits 0,1,2,6)
// Column 1: dots 4,5,6,8 (bits 3,4,5,7)
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40}, // left column
	{0x08, 0x10, 0x20, 0x80}, // right column
}

// resample picks n evenly spaced samples of values, first and last included.
func resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) == 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 || len(values) == 1 {
		for i := range out {
			out[i] = values[len(values)-1]
		}
		return out
	}
	last := len(values) - 1
	for i := range out {
		out[i] = values[i*last/(n-1)]
	}
	return out
}

// scale maps v in [0, maxValue] to a level in [0, levels-1], clamping
// values outside the range.
func scale(v, maxValue float64, levels int) int {
	if maxValue <= 0 || v <= 0 {
		return 0
	}
	l := int(v / maxValue * float64(levels-1))
	return min(l, levels-1)
}

// RenderBrailleChart plots values as a line of braille dots spanning width
// characters by rows text rows. The whole series is resampled to the
// available dot columns and scaled against maxValue; consecutive points are
// joined vertically so steep segments stay connected.
func RenderBrailleChart(values []float64, maxValue float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}

	dotRows := rows * 4
	dotCols := width * 2

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = 0x2800
		}
	}

	set := func(dotCol, dotRow int) {
		grid[dotRow/4][dotCol/2] |= brailleDots[dotCol%2][dotRow%4]
	}

	prevRow := -1
	for col, v := range resample(values, dotCols) {
		// Dot row 0 is the top of the chart.
		row := dotRows - 1 - scale(v, maxValue, dotRows)
		if prevRow < 0 {
			prevRow = row
		}
		lo, hi := min(prevRow, row), max(prevRow, row)
		for r := lo; r <= hi; r++ {
			set(col, r)
		}
		prevRow = row
	}

	result := make([]string, rows)
	for r := range grid {
		result[r] = string(grid[r])
	}
	return result
}
