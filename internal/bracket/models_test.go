package bracket

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_RoundTrip(t *testing.T) {
	e := NewEngine()
	_, err := e.Start(rankedTeams(5))
	require.NoError(t, err)
	submit(t, e, "R1-M2", 0, 2, 4)

	tests := []struct {
		name  string
		state *State
	}{
		{name: "empty", state: NewState()},
		{name: "in progress with byes", state: e.State()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.state)
			require.NoError(t, err)

			var decoded State
			require.NoError(t, json.Unmarshal(data, &decoded))

			if diff := cmp.Diff(tt.state, &decoded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestState_RoundTripComplete(t *testing.T) {
	e := NewEngine()
	_, err := e.Start(rankedTeams(4))
	require.NoError(t, err)
	submit(t, e, "R1-M1", 0, 3, 0)
	submit(t, e, "R1-M2", 0, 3, 0)
	_, err = e.SubmitResult(Result{MatchID: ThirdPlaceMatchID, Type: MatchTypeThirdPlace, HomeScore: score(8), AwayScore: score(6)})
	require.NoError(t, err)
	want := submit(t, e, "R2-M1", 1, 1, 0)

	data, err := json.Marshal(want)
	require.NoError(t, err)

	got := NewState()
	require.NoError(t, json.Unmarshal(data, got))
	assert.Empty(t, cmp.Diff(want, got))
}

func TestState_PersistedShape(t *testing.T) {
	s, err := NewEngine().Start(rankedTeams(3))
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "mainRounds")
	assert.Contains(t, raw, "thirdPlaceMatch")
	assert.Nil(t, raw["thirdPlaceMatch"])
	assert.Contains(t, raw, "champion")
	assert.Nil(t, raw["champion"])

	rounds := raw["mainRounds"].([]interface{})
	first := rounds[0].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "R1-M1", first["id"])
	assert.Nil(t, first["homeScore"])
	assert.Nil(t, first["awayScore"])
	assert.Equal(t, map[string]interface{}{"teamName": "BYE", "isBye": true}, first["away"])

	home := first["home"].(map[string]interface{})
	assert.Equal(t, "T1", home["teamName"])
	assert.Equal(t, "team-1", home["id"])
	assert.NotContains(t, home, "isBye")

	pending := rounds[1].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, pending, "away")
	assert.Nil(t, pending["away"])
	assert.Nil(t, pending["winner"])
}

func TestState_DecodesLegacyTeamObjects(t *testing.T) {
	// browser saves stored whole team records with numeric ids in the slots
	data := []byte(`{
		"mainRounds": [[{
			"id": "R1-M1",
			"home": {"id": 1718000000000, "teamName": "Hawks", "wins": 4},
			"away": {"teamName": "BYE", "isBye": true},
			"homeScore": null,
			"awayScore": null,
			"winner": {"id": 1718000000000, "teamName": "Hawks", "wins": 4}
		}]],
		"thirdPlaceMatch": null,
		"champion": null
	}`)

	var s State
	require.NoError(t, json.Unmarshal(data, &s))
	m := s.MainRounds[0][0]
	assert.Equal(t, TeamRef{ID: "1718000000000", TeamName: "Hawks"}, m.Home)
	assert.Equal(t, Bye{}, m.Away)
	assert.Equal(t, m.Home, m.Winner)

	data = []byte(`{"mainRounds": null, "thirdPlaceMatch": null, "champion": "Hawks"}`)
	require.NoError(t, json.Unmarshal(data, &s))
	assert.NotNil(t, s.MainRounds)
	assert.Equal(t, PhaseComplete, s.Phase())
}

func TestState_RejectsMalformedRounds(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "null match", data: `{"mainRounds": [[null]], "thirdPlaceMatch": null, "champion": null}`},
		{name: "null among matches", data: `{"mainRounds": [[{"id": "R1-M1"}, null]]}`},
		{name: "empty round", data: `{"mainRounds": [[]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			assert.Error(t, json.Unmarshal([]byte(tt.data), s))
		})
	}
}

func TestParseMatchType(t *testing.T) {
	tests := map[string]MatchType{
		"":            MatchTypeMain,
		"main":        MatchTypeMain,
		"thirdPlace":  MatchTypeThirdPlace,
		"third_place": MatchTypeThirdPlace,
	}
	for in, want := range tests {
		got, err := ParseMatchType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMatchType("consolation")
	assert.Error(t, err)
}

func TestState_MatchCount(t *testing.T) {
	e := NewEngine()
	s, err := e.Start(rankedTeams(4))
	require.NoError(t, err)
	assert.Equal(t, 2, s.MatchCount())

	submit(t, e, "R1-M1", 0, 1, 0)
	s = submit(t, e, "R1-M2", 0, 1, 0)
	assert.Equal(t, 4, s.MatchCount())
}
