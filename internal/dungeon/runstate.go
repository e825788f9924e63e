package dungeon

// RunState is the coarse state of the current dungeon run as reported
// by the feed.
type RunState struct {
	InDungeon   bool
	BossEntry   bool
	CurrentRoom string
	Player      Vec3i
}

// Active reports whether door tracking should run at all: inside a
// dungeon and not yet into the boss encounter.
func (s RunState) Active() bool {
	return s.InDungeon && !s.BossEntry
}
