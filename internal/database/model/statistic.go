package model

import "time"

// StatisticTypeUser counts registered and active accounts.
const StatisticTypeUser = "user"

// DailyStatistic is one aggregate row computed by the stats job, keyed by
// date and type.
type DailyStatistic struct {
	Date      string    `json:"date" msgpack:"date"`
	Type      string    `json:"type" msgpack:"type"`
	Increment int64     `json:"increment" msgpack:"increment"`
	Total     int64     `json:"total" msgpack:"total"`
	Active    int64     `json:"active" msgpack:"active"`
	Time      time.Time `json:"time" msgpack:"time"`
}
