package task

// Classify maps a priority and urgency to a quadrant. Out-of-range levels
// are treated as DefaultLevel.
func Classify(priority, urgency Level) Category {
	p := priority.OrDefault()
	u := urgency.OrDefault()

	switch {
	case p >= 3 && u >= 4:
		return CategoryDoNow
	case p >= 3:
		return CategoryDoLater
	case u >= 4:
		return CategoryDelegate
	default:
		return CategoryPostpone
	}
}
