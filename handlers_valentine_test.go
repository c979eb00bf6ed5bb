package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValentineCardCreateAndView(t *testing.T) {
	body := strings.NewReader(`{"recipient":"Mali","sender":"Ton","message":"Happy Valentine's Day"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/valentine", body)
	rec := httptest.NewRecorder()
	valentineCardsHandler(nil)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/valentine/"+created.Code, nil)
	rec = httptest.NewRecorder()
	valentineCardItemHandler(nil)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var card ValentineCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	require.Equal(t, "Mali", card.Recipient)
	require.Equal(t, "Happy Valentine's Day", card.Message)
}

func TestValentineCardRequiresRecipientAndMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/valentine", strings.NewReader(`{"sender":"Ton"}`))
	rec := httptest.NewRecorder()
	valentineCardsHandler(nil)(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGameMoveHandlerBlocks(t *testing.T) {
	body := strings.NewReader(`{"board":["X","X","","","O","","","",""],"mark":"O"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/valentine/game", body)
	rec := httptest.NewRecorder()
	gameMoveHandler()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Move   int      `json:"move"`
		Winner string   `json:"winner"`
		Draw   bool     `json:"draw"`
		Board  []string `json:"board"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Move)
	require.Equal(t, "O", resp.Board[2])
	require.Empty(t, resp.Winner)
}

func TestGameMoveHandlerRejectsBadBoards(t *testing.T) {
	for _, body := range []string{
		`{"board":["X","X"],"mark":"O"}`,
		`{"board":["X","X","","","Z","","","",""],"mark":"O"}`,
		`{"board":["","","","","","","","",""],"mark":"Q"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/valentine/game", strings.NewReader(body))
		rec := httptest.NewRecorder()
		gameMoveHandler()(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
