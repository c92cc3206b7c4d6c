package ballchasing

// replayPage represents one page of the replay listing endpoint
type replayPage struct {
	List []replayStub `json:"list"`
	Next string       `json:"next"` // absolute URL of the next page, empty on the last one
}

// replayStub represents the abbreviated replay entry in a listing page
type replayStub struct {
	ID      string `json:"id"`
	Created string `json:"created"`
}

// Replay represents the full replay detail from the API. Only the
// fields the summary needs are decoded; the archive keeps the complete
// payload as received.
type Replay struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Created string `json:"created"` // raw API timestamp, passed through unparsed
	Blue    Team   `json:"blue"`
	Orange  Team   `json:"orange"`
}

// Team represents one side of a replay
type Team struct {
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}

// Player represents one participant with their per-replay stats
type Player struct {
	Name  string       `json:"name"`
	Stats *PlayerStats `json:"stats"`
}

// PlayerStats groups the per-player stat blocks. Pointers distinguish
// a block absent from the payload from a zeroed one.
type PlayerStats struct {
	Core     *CoreStats     `json:"core"`
	Boost    *BoostStats    `json:"boost"`
	Movement *MovementStats `json:"movement"`
	Demo     *DemoStats     `json:"demo"`
}

type CoreStats struct {
	Shots   int `json:"shots"`
	Goals   int `json:"goals"`
	Saves   int `json:"saves"`
	Assists int `json:"assists"`
	Score   int `json:"score"`
}

type BoostStats struct {
	BPM       float64 `json:"bpm"`
	BCPM      float64 `json:"bcpm"`
	AvgAmount float64 `json:"avg_amount"`
}

type MovementStats struct {
	AvgSpeed      float64 `json:"avg_speed"`
	TotalDistance float64 `json:"total_distance"`
}

type DemoStats struct {
	Inflicted int `json:"inflicted"`
	Taken     int `json:"taken"`
}
