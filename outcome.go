package viamothello

// Outcome describes the state of play from the disc counts and the legal
// moves of both sides.
func Outcome(light, dark int, lightMoves, darkMoves []Move) string {
	switch {
	case light == 0 && dark == 0:
		return "No pieces on the board yet"
	case light+dark == BoardSize*BoardSize || (len(lightMoves) == 0 && len(darkMoves) == 0):
		switch {
		case light > dark:
			return "Game over! Light wins"
		case dark > light:
			return "Game over! Dark wins"
		}
		return "Game over! It's a tie"
	case light > dark:
		return "Light is in the lead"
	case dark > light:
		return "Dark is in the lead"
	}
	return "Tied"
}
