package main

import "errors"

// Tic-tac-toe opponent for the valentine card page. The board is nine cells
// of "X", "O" or "", indexed row-major.

var errNoMoves = errors.New("no moves available")

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// BoardWinner returns the mark that has three in a row, or "".
func BoardWinner(b [9]string) string {
	for _, w := range winLines {
		if b[w[0]] != "" && b[w[0]] == b[w[1]] && b[w[1]] == b[w[2]] {
			return b[w[0]]
		}
	}
	return ""
}

// BoardFull reports whether no empty cell remains.
func BoardFull(b [9]string) bool {
	for _, c := range b {
		if c == "" {
			return false
		}
	}
	return true
}

// BestMove returns the strongest cell index for mark via exhaustive minimax.
// It errors when the game is already decided or the board is full.
func BestMove(b [9]string, mark string) (int, error) {
	if BoardWinner(b) != "" || BoardFull(b) {
		return 0, errNoMoves
	}
	best := -1
	bestScore := -100
	for i := 0; i < 9; i++ {
		if b[i] != "" {
			continue
		}
		b[i] = mark
		score := minimax(b, otherMark(mark), mark, 1)
		b[i] = ""
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return 0, errNoMoves
	}
	return best, nil
}

// minimax scores a position for ai; quicker wins score higher and quicker
// losses lower, so the opponent prefers to delay a forced loss.
func minimax(b [9]string, turn, ai string, depth int) int {
	if w := BoardWinner(b); w != "" {
		if w == ai {
			return 10 - depth
		}
		return depth - 10
	}
	if BoardFull(b) {
		return 0
	}
	if turn == ai {
		best := -100
		for i := 0; i < 9; i++ {
			if b[i] != "" {
				continue
			}
			b[i] = turn
			if s := minimax(b, otherMark(turn), ai, depth+1); s > best {
				best = s
			}
			b[i] = ""
		}
		return best
	}
	best := 100
	for i := 0; i < 9; i++ {
		if b[i] != "" {
			continue
		}
		b[i] = turn
		if s := minimax(b, otherMark(turn), ai, depth+1); s < best {
			best = s
		}
		b[i] = ""
	}
	return best
}

func otherMark(m string) string {
	if m == "X" {
		return "O"
	}
	return "X"
}
