package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-score-server/internal/engine"
)

func TestDecodeClientEvent(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		want    engine.Event
		wantErr error
	}{
		{
			name: "join",
			msg:  `{"action":"join","payload":{"player_name":"Ann"}}`,
			want: engine.Join{PlayerName: "Ann"},
		},
		{
			name: "join keeps client address for the bridge to overwrite",
			msg:  `{"action":"join","payload":{"player_name":"Ann","address":"1.2.3.4:5"}}`,
			want: engine.Join{PlayerName: "Ann", Address: "1.2.3.4:5"},
		},
		{
			name: "point",
			msg:  `{"action":"point","payload":{"player_name":"Ann","new_points":42}}`,
			want: engine.PointEvent{PlayerName: "Ann", NewPoints: 42},
		},
		{
			name: "point zero is valid",
			msg:  `{"action":"point","payload":{"player_name":"Ann","new_points":0}}`,
			want: engine.PointEvent{PlayerName: "Ann", NewPoints: 0},
		},
		{name: "not json", msg: `hello`, wantErr: ErrInvalidJSON},
		{name: "unknown action", msg: `{"action":"leave"}`, wantErr: ErrUnknownAction},
		{name: "join without payload", msg: `{"action":"join"}`, wantErr: ErrInvalidPayload},
		{name: "join empty name", msg: `{"action":"join","payload":{"player_name":""}}`, wantErr: ErrInvalidPayload},
		{name: "point missing points", msg: `{"action":"point","payload":{"player_name":"Ann"}}`, wantErr: ErrInvalidPayload},
		{name: "point wrong type", msg: `{"action":"point","payload":{"player_name":"Ann","new_points":"x"}}`, wantErr: ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClientEvent([]byte(tt.msg))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeGameState(t *testing.T) {
	b, err := EncodeGameState(domain.GameState{
		Players: []domain.Player{{Name: "Ann", Points: 42}, {Name: "Bo"}},
		Goal:    100,
		Version: 3,
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"action":"game_state","data":{"players":[{"name":"Ann","points":42},{"name":"Bo","points":0}],"goal":100,"version":3}}`,
		string(b))

	// 沒有玩家時輸出空陣列而非 null
	b, err = EncodeGameState(domain.GameState{Goal: 5})
	require.NoError(t, err)
	var resp struct {
		Data struct {
			Players []domain.Player `json:"players"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &resp))
	assert.NotNil(t, resp.Data.Players)
	assert.Contains(t, string(b), `"players":[]`)
}

func TestDecodeControl(t *testing.T) {
	req, err := DecodeControl([]byte("CreateGame\n"))
	require.NoError(t, err)
	assert.Equal(t, ControlRequest{Action: ActionCreateGame, Literal: true}, req)

	req, err = DecodeControl([]byte(`{"action":"create_game","payload":{"goal":100}}`))
	require.NoError(t, err)
	assert.Equal(t, ControlRequest{Action: ActionCreateGame, Goal: 100}, req)

	req, err = DecodeControl([]byte(`{"action":"create_game"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, req.Goal)

	req, err = DecodeControl([]byte(`{"action":"list_games"}`))
	require.NoError(t, err)
	assert.Equal(t, ActionListGames, req.Action)

	_, err = DecodeControl([]byte(`{"action":"create_game","payload":{"goal":-1}}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeControl([]byte(`{"action":"join"}`))
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = DecodeControl([]byte(`creategame`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestEncodeError(t *testing.T) {
	assert.JSONEq(t, `{"action":"create_game","error":"unavailable"}`,
		string(EncodeError(ActionCreateGame, UnavailableCode)))
}
