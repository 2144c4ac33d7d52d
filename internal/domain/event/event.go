package event

// Rule binds an event name to its recurrence expression.
// The expression is a standard 5-field cron line (minute hour day month
// weekday) evaluated in UTC. Rules are immutable for the process lifetime.
type Rule struct {
	Name string
	Spec string
}

// DefaultSchedule is the built-in event table. Names are unique; the slice
// order is the configuration order, not the display order (the classifier
// re-sorts every pass).
func DefaultSchedule() []Rule {
	return []Rule{
		{Name: "Easy Dungeon", Spec: "0 * * * *"},
		{Name: "Medium Dungeon", Spec: "10 * * * *"},
		{Name: "Leaf Raid", Spec: "15 * * * *"},
		{Name: "Hard Dungeon", Spec: "20 * * * *"},
		{Name: "Insane Dungeon", Spec: "30 * * * *"},
		{Name: "Crazy Dungeon", Spec: "40 * * * *"},
		{Name: "Nightmare Dungeon", Spec: "50 * * * *"},
	}
}
