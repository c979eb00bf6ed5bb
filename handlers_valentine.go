package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// valentineCardsHandler creates a shareable card: POST JSON
// {recipient, sender, message} answers {code}.
func valentineCardsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			Recipient string `json:"recipient"`
			Sender    string `json:"sender"`
			Message   string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		card := ValentineCard{
			Code:      uuid.NewString(),
			Recipient: strings.TrimSpace(payload.Recipient),
			Sender:    strings.TrimSpace(payload.Sender),
			Message:   strings.TrimSpace(payload.Message),
			CreatedAt: time.Now().Format(time.RFC3339),
		}
		if card.Recipient == "" || card.Message == "" {
			http.Error(w, "recipient and message required", http.StatusBadRequest)
			return
		}
		if db == nil {
			DevAddCard(card)
		} else {
			if _, err := db.Exec("INSERT INTO valentine_cards (code, recipient, sender, message) VALUES (?, ?, ?, ?)",
				card.Code, card.Recipient, card.Sender, card.Message); err != nil {
				log.Println("valentine POST db.Exec error:", err)
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"code": card.Code})
	}
}

// valentineCardItemHandler serves GET /api/valentine/{code}.
func valentineCardItemHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		parts := strings.Split(r.URL.Path, "/")
		if len(parts) < 4 || parts[3] == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		code := parts[3]
		if db == nil {
			card, ok := DevGetCard(code)
			if !ok {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(card)
			return
		}
		var card ValentineCard
		var created interface{}
		row := db.QueryRow("SELECT code, recipient, IFNULL(sender,''), message, created_at FROM valentine_cards WHERE code = ?", code)
		if err := row.Scan(&card.Code, &card.Recipient, &card.Sender, &card.Message, &created); err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		card.CreatedAt = timestampString(created)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(card)
	}
}

// gameMoveHandler answers the tic-tac-toe opponent's move for a posted board.
// The body carries the nine cells and the mark the machine plays.
func gameMoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			Board []string `json:"board"`
			Mark  string   `json:"mark"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if len(payload.Board) != 9 {
			http.Error(w, "board must have 9 cells", http.StatusBadRequest)
			return
		}
		var board [9]string
		for i, c := range payload.Board {
			if c != "" && c != "X" && c != "O" {
				http.Error(w, "cells must be X, O or empty", http.StatusBadRequest)
				return
			}
			board[i] = c
		}
		mark := payload.Mark
		if mark == "" {
			mark = "O"
		}
		if mark != "X" && mark != "O" {
			http.Error(w, "mark must be X or O", http.StatusBadRequest)
			return
		}

		resp := map[string]interface{}{
			"move":   -1,
			"winner": BoardWinner(board),
			"draw":   false,
		}
		move, err := BestMove(board, mark)
		if err == nil {
			board[move] = mark
			resp["move"] = move
			resp["winner"] = BoardWinner(board)
		}
		if BoardWinner(board) == "" && BoardFull(board) {
			resp["draw"] = true
		}
		resp["board"] = board[:]
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
