package store

import (
	"sort"

	"github.com/dori/brainy/internal/model"
)

// Summary is the dashboard's view of the state
type Summary struct {
	Pending         int
	Done            int
	HighPending     int
	HabitsToday     int
	HabitsTotal     int
	GoalsCompleted  int
	AverageEnergy   float64 // 0 when no check-in recorded energy
	MoodCounts      map[model.Mood]int
	NetIncome       float64
	LatestMood      *model.MoodLog
	FocusStreak     int
	UpcomingHigh    []model.Task // pending high-priority tasks, earliest deadline first
	ConnectedCount  int
	JoinedChallenge int
}

// Summary derives dashboard numbers from the current state
func (s *Store) Summary() Summary {
	st := s.Snapshot()
	return Summarize(st, s.Today())
}

// Summarize derives dashboard numbers from st for the given date
func Summarize(st State, today string) Summary {
	sum := Summary{
		MoodCounts:  make(map[model.Mood]int),
		FocusStreak: st.FocusStreak,
		HabitsTotal: len(st.Habits),
	}

	for _, t := range st.Tasks {
		if t.IsDone() {
			sum.Done++
			continue
		}
		sum.Pending++
		if t.Priority == model.PriorityHigh {
			sum.HighPending++
			sum.UpcomingHigh = append(sum.UpcomingHigh, t)
		}
	}
	sort.SliceStable(sum.UpcomingHigh, func(i, j int) bool {
		a, b := sum.UpcomingHigh[i].Deadline, sum.UpcomingHigh[j].Deadline
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	for _, h := range st.Habits {
		if h.IsCompletedOn(today) {
			sum.HabitsToday++
		}
	}

	for _, g := range st.Goals {
		if g.Progress >= 100 {
			sum.GoalsCompleted++
		}
	}

	var energyTotal, energyN int
	for i, m := range st.MoodLogs {
		sum.MoodCounts[m.Mood]++
		if m.Energy != nil {
			energyTotal += *m.Energy
			energyN++
		}
		if i == len(st.MoodLogs)-1 {
			latest := m
			sum.LatestMood = &latest
		}
	}
	if energyN > 0 {
		sum.AverageEnergy = float64(energyTotal) / float64(energyN)
	}

	for _, e := range st.IncomeEntries {
		sum.NetIncome += e.Signed()
	}
	for _, in := range st.Integrations {
		if in.Connected {
			sum.ConnectedCount++
		}
	}
	for _, c := range st.Challenges {
		if c.Joined {
			sum.JoinedChallenge++
		}
	}
	return sum
}
