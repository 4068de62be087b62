package diagnostics

import "testing"

func TestRecordingSink_CollectsBothChannels(t *testing.T) {
	rec := &RecordingSink{}
	rec.Info("starting up")
	rec.Warn("register over 64 bits")
	rec.Info("done")

	if len(rec.Infos) != 2 || rec.Infos[0] != "starting up" || rec.Infos[1] != "done" {
		t.Errorf("Infos = %v, want [starting up, done]", rec.Infos)
	}
	if len(rec.Warns) != 1 || rec.Warns[0] != "register over 64 bits" {
		t.Errorf("Warns = %v, want [register over 64 bits]", rec.Warns)
	}
}

func TestDiscard_NeverPanics(t *testing.T) {
	var s Sink = Discard{}
	s.Info("anything")
	s.Warn("anything")
}
