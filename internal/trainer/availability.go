package trainer

import "time"

// Available reports whether the requested slot fits the trainer's weekly
// schedule. A weekday with no declared intervals is treated as fully
// available. Otherwise the requested range must be fully contained in some
// FREE interval on that weekday.
func (ws WeeklySchedule) Available(day time.Weekday, startTime, endTime string) bool {
	intervals, declared := ws[day]
	if !declared || len(intervals) == 0 {
		return true
	}

	for _, iv := range intervals {
		if iv.Status != IntervalFree {
			continue
		}
		if iv.StartTime <= startTime && iv.EndTime >= endTime {
			return true
		}
	}

	return false
}

// FirstConflict returns the first requested slot the schedule cannot satisfy,
// or nil when every slot is available.
func (ws WeeklySchedule) FirstConflict(slots []SlotRequest) *SlotRequest {
	for i := range slots {
		if !ws.Available(slots[i].Day, slots[i].StartTime, slots[i].EndTime) {
			return &slots[i]
		}
	}
	return nil
}
