package terminal

import "testing"

func TestLinesUsed(t *testing.T) {
	tests := []struct {
		length, width, want int
	}{
		{0, 80, 2},
		{10, 80, 2},
		{80, 80, 2},
		{81, 80, 3},
		{250, 80, 5},
		{30, 0, 2},
	}
	for _, tt := range tests {
		if got := linesUsed(tt.length, tt.width); got != tt.want {
			t.Errorf("linesUsed(%d, %d) = %d, want %d", tt.length, tt.width, got, tt.want)
		}
	}
}
