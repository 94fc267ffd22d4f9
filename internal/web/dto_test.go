package web

import (
	"testing"
)

func Test_createMatchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     createMatchRequest
		wantErr bool
	}{
		{
			name:    "manual result",
			req:     createMatchRequest{playerA: 1, playerB: 2, scoreA: 11, scoreB: 9},
			wantErr: false,
		},
		{
			name:    "realtime ignores scores",
			req:     createMatchRequest{playerA: 1, playerB: 2, realtime: true},
			wantErr: false,
		},
		{
			name:    "missing A",
			req:     createMatchRequest{playerB: 2, scoreA: 11, scoreB: 9},
			wantErr: true,
		},
		{
			name:    "missing B",
			req:     createMatchRequest{playerA: 1, scoreA: 11, scoreB: 9},
			wantErr: true,
		},
		{
			name:    "missing both",
			req:     createMatchRequest{},
			wantErr: true,
		},
		{
			name:    "same player twice",
			req:     createMatchRequest{playerA: 1, playerB: 1, scoreA: 11, scoreB: 9},
			wantErr: true,
		},
		{
			name:    "negative score",
			req:     createMatchRequest{playerA: 1, playerB: 2, scoreA: -1, scoreB: 9},
			wantErr: true,
		},
		{
			name:    "score over maximum",
			req:     createMatchRequest{playerA: 1, playerB: 2, scoreA: 12, scoreB: 9},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.req.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
