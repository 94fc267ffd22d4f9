package elo

import (
	"math"
	"testing"
)

func TestExpectedScore(t *testing.T) {
	tests := []struct {
		name string
		Ra   int
		Rb   int
		want float64
	}{
		{
			name: "equal ratings",
			Ra:   1000,
			Rb:   1000,
			want: 0.5,
		},
		{
			name: "400 points ahead",
			Ra:   1400,
			Rb:   1000,
			want: 10.0 / 11.0,
		},
		{
			name: "400 points behind",
			Ra:   1000,
			Rb:   1400,
			want: 1.0 / 11.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedScore(tt.Ra, tt.Rb)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ExpectedScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpectedScoreSymmetry(t *testing.T) {
	pairs := [][2]int{
		{1000, 1000},
		{1013, 988},
		{1200, 850},
		{2400, 1000},
	}
	for _, p := range pairs {
		sum := ExpectedScore(p[0], p[1]) + ExpectedScore(p[1], p[0])
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("ExpectedScore(%d,%d)+ExpectedScore(%d,%d) = %v, want 1", p[0], p[1], p[1], p[0], sum)
		}
	}
}

func TestNewRating(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		expected float64
		points   Points
		want     int
	}{
		{
			name:     "even match win",
			current:  1000,
			expected: 0.5,
			points:   Win,
			want:     1013,
		},
		{
			name:     "even match lose",
			current:  1000,
			expected: 0.5,
			points:   Lose,
			want:     988,
		},
		{
			name:     "favorite wins",
			current:  1100,
			expected: ExpectedScore(1100, 1000),
			points:   Win,
			want:     1109,
		},
		{
			name:     "favorite loses",
			current:  1100,
			expected: ExpectedScore(1100, 1000),
			points:   Lose,
			want:     1084,
		},
		{
			name:     "underdog wins",
			current:  1000,
			expected: ExpectedScore(1000, 1100),
			points:   Win,
			want:     1016,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRating(tt.current, tt.expected, tt.points); got != tt.want {
				t.Errorf("NewRating() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Independent rounding means classical Elo's zero-sum property is not exact:
// two 1000-rated players end at 1013 and 988. That is intended behavior.
func TestNewRatingPairRounding(t *testing.T) {
	expA := ExpectedScore(1000, 1000)
	expB := ExpectedScore(1000, 1000)
	a := NewRating(1000, expA, Win)
	b := NewRating(1000, expB, Lose)
	if a != 1013 || b != 988 {
		t.Errorf("pair = (%d, %d), want (1013, 988)", a, b)
	}
	if a+b != 2001 {
		t.Errorf("pair sum = %d, want 2001", a+b)
	}
}
