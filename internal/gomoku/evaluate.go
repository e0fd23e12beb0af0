package gomoku

import (
	"math/rand"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Scoring bins for a candidate cell, per direction. Only the ordering
// matters: an immediate win or block must outrank an open three, an open
// three an open two, and so on down to bare adjacency.
const (
	scoreWin       = 1_000_000
	scoreOpenThree = 10_000
	scoreOpenTwo   = 1_000
	scoreHalfTwo   = 100
	scoreOpenOne   = 10
	scoreAdjacent  = 1
)

// defenseWeight - opponent lines count slightly more than own lines, so the
// evaluator blocks a developing threat instead of racing it.
const defenseWeight = 1.1

// centerPenalty - per-step Manhattan distance cost pulling early moves
// toward the middle of the board.
const centerPenalty = 0.5

// perturbation - upper bound of the random tie-break noise.
const perturbation = 5.0

var neighborhood = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Evaluator - heuristic move selection over a board. Randomness goes through
// the injected source so tests can seed it.
type Evaluator struct {
	rules Rules
	rng   *rand.Rand
}

func NewEvaluator(rules Rules, rng *rand.Rand) *Evaluator {
	return &Evaluator{
		rules: rules,
		rng:   rng,
	}
}

// SelectEasy - a uniform-random pick among empty cells touching at least one
// stone, or among all empty cells on an untouched board. Keeps the weakest
// tier near the action without making it predictable.
func (that *Evaluator) SelectEasy(board entity.Board, player entity.Cell) entity.Move {
	nearStones := make([]entity.Coord, 0, board.Size()*board.Size())
	empty := make([]entity.Coord, 0, board.Size()*board.Size())

	for row := 0; row < board.Size(); row++ {
		for col := 0; col < board.Size(); col++ {
			if board.At(row, col) != entity.CellEmpty {
				continue
			}

			empty = append(empty, entity.Coord{Row: row, Col: col})
			if that.hasOccupiedNeighbor(board, row, col) {
				nearStones = append(nearStones, entity.Coord{Row: row, Col: col})
			}
		}
	}

	candidates := nearStones
	if len(candidates) == 0 {
		candidates = empty
	}

	if len(candidates) == 0 {
		return entity.Move{Player: player}
	}

	pick := candidates[that.rng.Intn(len(candidates))]

	return entity.Move{Row: pick.Row, Col: pick.Col, Player: player}
}

// SelectMedium - scores every empty cell by its line potential for both
// players and picks the maximum. An immediately winning cell is taken before
// any weighing, so the defense bias can never talk the evaluator out of a win.
func (that *Evaluator) SelectMedium(board entity.Board, player entity.Cell) entity.Move {
	opponent := player.Opponent()
	center := board.Size() / 2

	best := entity.Move{Player: player}
	bestScore := 0.0
	found := false

	for row := 0; row < board.Size(); row++ {
		for col := 0; col < board.Size(); col++ {
			if board.At(row, col) != entity.CellEmpty {
				continue
			}

			score := 0.0
			for _, dir := range directions {
				own := that.lineScore(board, row, col, dir[0], dir[1], player)
				if own >= scoreWin {
					return entity.Move{Row: row, Col: col, Player: player}
				}

				score += own
				score += defenseWeight * that.lineScore(board, row, col, dir[0], dir[1], opponent)
			}

			distance := abs(row-center) + abs(col-center)
			score -= centerPenalty * float64(distance)
			score += that.rng.Float64() * perturbation

			if !found || score > bestScore {
				best = entity.Move{Row: row, Col: col, Player: player}
				bestScore = score
				found = true
			}
		}
	}

	return best
}

// lineScore - the potential of placing the player's stone at the empty cell
// (row,col) along one axis: the length of the run it would join and how many
// of the run's two ends stay open.
func (that *Evaluator) lineScore(board entity.Board, row, col, dr, dc int, player entity.Cell) float64 {
	forward, forwardOpen := that.runFrom(board, row, col, dr, dc, player)
	backward, backwardOpen := that.runFrom(board, row, col, -dr, -dc, player)

	count := forward + backward
	open := 0
	if forwardOpen {
		open++
	}
	if backwardOpen {
		open++
	}

	switch {
	case count >= that.rules.WinLength()-1:
		return scoreWin
	case count == 3 && open >= 1:
		return scoreOpenThree
	case count == 2 && open == 2:
		return scoreOpenTwo
	case count == 2 && open == 1:
		return scoreHalfTwo
	case count == 1 && open == 2:
		return scoreOpenOne
	case count >= 1:
		return scoreAdjacent
	default:
		return 0
	}
}

// runFrom - counts the player's contiguous stones from (row,col) exclusive in
// one direction and reports whether the cell past the run is open.
func (that *Evaluator) runFrom(board entity.Board, row, col, dr, dc int, player entity.Cell) (int, bool) {
	count := 0
	r, c := row+dr, col+dc

	for board.InBounds(r, c) && board.At(r, c) == player {
		count++
		r += dr
		c += dc
	}

	return count, board.IsEmpty(r, c)
}

func (that *Evaluator) hasOccupiedNeighbor(board entity.Board, row, col int) bool {
	for _, d := range neighborhood {
		r, c := row+d[0], col+d[1]
		if board.InBounds(r, c) && board.At(r, c) != entity.CellEmpty {
			return true
		}
	}

	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
