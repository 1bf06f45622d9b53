package models

import "testing"

func TestAlarmConfigUpdateApply(t *testing.T) {
	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		cfg := DefaultAlarmConfig()
		off := false
		got := AlarmConfigUpdate{Sound: &off}.Apply(cfg)

		if got.Sound {
			t.Error("Sound = true, want false")
		}
		if !got.Enabled || !got.Visual || !got.Minutes5Before || !got.Minutes1Before {
			t.Errorf("unrelated fields changed: %+v", got)
		}
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		cfg := DefaultAlarmConfig()
		if got := (AlarmConfigUpdate{}).Apply(cfg); got != cfg {
			t.Errorf("got %+v, want %+v", got, cfg)
		}
	})

	t.Run("all fields", func(t *testing.T) {
		off := false
		on := true
		got := AlarmConfigUpdate{
			Enabled:        &off,
			Sound:          &off,
			Visual:         &on,
			Minutes5Before: &off,
			Minutes1Before: &on,
		}.Apply(DefaultAlarmConfig())

		want := AlarmConfig{Enabled: false, Sound: false, Visual: true, Minutes5Before: false, Minutes1Before: true}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})
}
