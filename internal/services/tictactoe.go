package services

import "gamehub/internal/domain"

const boardCells = 9

var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// buildBoard replays the move list into cell ownership by player id.
// An empty cell holds "".
func buildBoard(moves []*domain.Move) [boardCells]string {
	var board [boardCells]string
	for _, move := range moves {
		if move.Position >= 0 && move.Position < boardCells {
			board[move.Position] = move.PlayerID
		}
	}
	return board
}

// nextPlayer returns whose turn it is. Player X always opens.
func nextPlayer(match *domain.Match, moves []*domain.Move) string {
	if len(moves)%2 == 0 {
		return match.PlayerXID
	}
	if match.PlayerOID != nil {
		return *match.PlayerOID
	}
	return ""
}

// winnerOn reports the player owning a completed line, or "".
func winnerOn(board [boardCells]string) string {
	for _, line := range winningLines {
		owner := board[line[0]]
		if owner != "" && owner == board[line[1]] && owner == board[line[2]] {
			return owner
		}
	}
	return ""
}
