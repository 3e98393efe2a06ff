package dynamics

// FloorDB is the level reported for silence.
const FloorDB = -100.0

// LinearToDB converts an amplitude to decibels, FloorDB for x <= 0.
func LinearToDB(x float64) float64 {
	if x <= 0 {
		return FloorDB
	}
	db := 20 * mathLog10(x)
	if db < FloorDB {
		return FloorDB
	}
	return db
}

// DBToLinear converts decibels to an amplitude, 0 at or below FloorDB.
func DBToLinear(db float64) float64 {
	if db <= FloorDB {
		return 0
	}
	return mathPow10(db * 0.05)
}

// TimeCoefficient returns the one-pole smoothing coefficient for a time
// constant of timeMs milliseconds: exp(-1 / (timeMs * 0.001 * sampleRate)).
func TimeCoefficient(timeMs, sampleRate float64) float64 {
	if timeMs <= 0 || sampleRate <= 0 {
		return 0
	}
	return mathExp(-1 / (timeMs * 0.001 * sampleRate))
}
