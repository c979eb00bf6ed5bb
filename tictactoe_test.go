package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBestMoveTakesWin(t *testing.T) {
	board := [9]string{
		"X", "X", "",
		"O", "O", "",
		"", "", "",
	}
	move, err := BestMove(board, "X")
	require.NoError(t, err)
	require.Equal(t, 2, move)
}

func TestBestMoveBlocksOpponent(t *testing.T) {
	board := [9]string{
		"X", "X", "",
		"", "O", "",
		"", "", "",
	}
	move, err := BestMove(board, "O")
	require.NoError(t, err)
	require.Equal(t, 2, move, "must block the X win at cell 2")
}

func TestBestMovePrefersWinOverBlock(t *testing.T) {
	board := [9]string{
		"X", "X", "",
		"O", "O", "",
		"", "", "",
	}
	move, err := BestMove(board, "O")
	require.NoError(t, err)
	require.Equal(t, 5, move, "completing its own row beats blocking")
}

func TestBestMoveOnDecidedBoard(t *testing.T) {
	won := [9]string{
		"X", "X", "X",
		"O", "O", "",
		"", "", "",
	}
	_, err := BestMove(won, "O")
	require.Error(t, err)

	full := [9]string{
		"X", "O", "X",
		"X", "O", "O",
		"O", "X", "X",
	}
	require.True(t, BoardFull(full))
	_, err = BestMove(full, "O")
	require.Error(t, err)
}

// Two perfect players always draw; the minimax opponent playing itself from
// an empty board must therefore end with no winner.
func TestSelfPlayEndsInDraw(t *testing.T) {
	var board [9]string
	mark := "X"
	for !BoardFull(board) && BoardWinner(board) == "" {
		move, err := BestMove(board, mark)
		require.NoError(t, err)
		require.Empty(t, board[move], "move %d cell already taken", move)
		board[move] = mark
		mark = otherMark(mark)
	}
	require.Empty(t, BoardWinner(board))
}

func TestBoardWinnerDetectsColumnsAndDiagonals(t *testing.T) {
	col := [9]string{
		"O", "X", "",
		"O", "X", "",
		"O", "", "",
	}
	require.Equal(t, "O", BoardWinner(col))

	diag := [9]string{
		"X", "O", "",
		"O", "X", "",
		"", "", "X",
	}
	require.Equal(t, "X", BoardWinner(diag))
}
