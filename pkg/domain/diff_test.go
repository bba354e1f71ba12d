package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	calibrate := StageCalibrate
	active := StatusActive
	one := 1

	tests := []struct {
		name     string
		old      *State
		new      *State
		wantDiff *StateDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new: &State{
				SessionID: "sess-1",
				Stage:     StageCalibrate,
				Status:    StatusActive,
				History:   []Stage{StageAwaitBackCamera, StageCalibrate},
				Pulses:    1,
			},
			wantDiff: &StateDiff{
				SessionID: "sess-1",
				Stage:     &calibrate,
				Status:    &active,
				Entered:   []Stage{StageAwaitBackCamera, StageCalibrate},
				Pulses:    &one,
			},
		},
		{
			name: "No Changes",
			old: &State{
				SessionID: "sess-1",
				Stage:     StageCalibrate,
				Status:    StatusActive,
				History:   []Stage{StageAwaitBackCamera, StageCalibrate},
			},
			new: &State{
				SessionID: "sess-1",
				Stage:     StageCalibrate,
				Status:    StatusActive,
				History:   []Stage{StageAwaitBackCamera, StageCalibrate},
			},
			wantDiff: nil,
		},
		{
			name: "Stage Advance",
			old: &State{
				SessionID: "sess-1",
				Stage:     StageAwaitBackCamera,
				Status:    StatusActive,
				History:   []Stage{StageAwaitBackCamera},
			},
			new: &State{
				SessionID: "sess-1",
				Stage:     StageCalibrate,
				Status:    StatusActive,
				History:   []Stage{StageAwaitBackCamera, StageCalibrate},
			},
			wantDiff: &StateDiff{
				SessionID: "sess-1",
				Stage:     &calibrate,
				Entered:   []Stage{StageCalibrate},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			assert.Equal(t, tt.wantDiff, got)
		})
	}
}

func TestDiff_JSONUsesStageNames(t *testing.T) {
	d := Diff(nil, &State{SessionID: "s", Stage: StageFinishUp, Status: StatusActive, History: []Stage{StageFinishUp}})
	require.NotNil(t, d)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"stage":"finish_up"`)
	assert.Contains(t, string(b), `"entered":["finish_up"]`)
}

func TestStage_Order(t *testing.T) {
	for i, s := range Stages[:len(Stages)-1] {
		next, ok := s.Next()
		assert.True(t, ok)
		assert.Equal(t, Stages[i+1], next)
		assert.False(t, s.Terminal())
	}
	_, ok := StageReady.Next()
	assert.False(t, ok)
	assert.True(t, StageReady.Terminal())
}

func TestParseStage(t *testing.T) {
	for _, s := range Stages {
		got, err := ParseStage(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStage("warp_speed")
	assert.Error(t, err)
	assert.Equal(t, "stage(42)", Stage(42).String())
}

func TestState_Clone(t *testing.T) {
	s := NewState("s")
	s.History = append(s.History, StageAwaitBackCamera)

	c := s.Clone()
	c.History[0] = StageReady
	assert.Equal(t, StageAwaitBackCamera, s.History[0])
	assert.Nil(t, (*State)(nil).Clone())
}
