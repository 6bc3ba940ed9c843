package progress

import "time"

const dateLayout = "2006-01-02"

// touchStreak applies the daily streak rule for an activity at now:
//
//	no previous activity   -> 1
//	same calendar day      -> unchanged
//	next calendar day      -> +1
//	gap of two or more     -> 1
//	previous day in future -> unchanged
//
// Days are calendar days in now's location.
func touchStreak(p *UserProgress, now time.Time) {
	today := now.Format(dateLayout)
	if p.LastStudyDate == "" {
		p.StudyStreak = 1
		p.LastStudyDate = today
		return
	}
	last, err := time.ParseInLocation(dateLayout, p.LastStudyDate, now.Location())
	if err != nil {
		p.StudyStreak = 1
		p.LastStudyDate = today
		return
	}
	switch days := daysBetween(last, now); {
	case days < 0:
		return
	case days == 0:
		if p.StudyStreak == 0 {
			p.StudyStreak = 1
		}
	case days == 1:
		p.StudyStreak++
	default:
		p.StudyStreak = 1
	}
	p.LastStudyDate = today
}

// daysBetween counts calendar days from a to b, ignoring clock time and DST.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
