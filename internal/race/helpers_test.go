package race

// scriptedRand replays fixed advancements. IntN returns the next step minus
// one so that ApplyTick's +1 yields exactly the scripted value.
type scriptedRand struct {
	steps []int
	i     int
}

func script(steps ...int) *scriptedRand {
	return &scriptedRand{steps: steps}
}

func (s *scriptedRand) IntN(n int) int {
	step := s.steps[s.i%len(s.steps)]
	s.i++
	if step > n {
		step = n
	}
	return step - 1
}

func entrantAt(name string, speed, position int) *Entrant {
	e := NewEntrant(name, speed)
	e.Position = position
	return e
}

func names(es []*Entrant) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Name
	}
	return out
}
