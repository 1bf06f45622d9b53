package alarm

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"alarm-service/internal/logging"
	"alarm-service/internal/models"
)

// Tone frequencies and duration for the two alarm types.
const (
	warningToneHz = 440.0
	urgentToneHz  = 880.0
	toneDuration  = 500 * time.Millisecond
)

// Options are the engine tunables. Zero values fall back to the defaults
// the scheduler was designed around.
type Options struct {
	// ScanInterval is the period of the monitoring loop.
	ScanInterval time.Duration
	// InitialDelay postpones the first scan so task sources can populate.
	InitialDelay time.Duration
	// RepeatInterval is the gap between urgent tone repetitions.
	RepeatInterval time.Duration
	// Cooldown is how long a persisted marker suppresses re-firing.
	Cooldown time.Duration
}

func (o Options) withDefaults() Options {
	if o.ScanInterval == 0 {
		o.ScanInterval = 15 * time.Second
	}
	if o.InitialDelay == 0 {
		o.InitialDelay = time.Second
	}
	if o.RepeatInterval == 0 {
		o.RepeatInterval = 1500 * time.Millisecond
	}
	if o.Cooldown == 0 {
		o.Cooldown = 10 * time.Minute
	}
	return o
}

// Engine owns the alarm scan loop: it watches the current day's task set,
// raises at most one notification per threshold crossing, dedupes re-firing
// through persisted markers, and keeps an urgent alarm sounding until it is
// acknowledged. All methods are safe for concurrent use; scans run to
// completion under the engine lock, so back-to-back scans never interleave.
type Engine struct {
	logger *logging.Logger
	clock  Clock
	store  TriggerStore
	sink   NotificationSink
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	config        models.AlarmConfig
	tasks         []models.ScheduledTask
	notifications []models.AlarmNotification
	activeUrgent  *models.AlarmNotification
	repeatTimers  []*time.Timer
	subscribers   map[int]chan []models.AlarmNotification
	nextSubID     int
	stopScan      chan struct{}
	closed        bool
}

// NewEngine constructs an engine with all channels and thresholds enabled.
func NewEngine(logger *logging.Logger, clock Clock, store TriggerStore, sink NotificationSink, opts Options) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		logger:      logger,
		clock:       clock,
		store:       store,
		sink:        sink,
		opts:        opts.withDefaults(),
		ctx:         ctx,
		cancel:      cancel,
		config:      models.DefaultAlarmConfig(),
		subscribers: make(map[int]chan []models.AlarmNotification),
	}
}

// SetTasks replaces the held task list wholesale. Invalid entries are kept;
// the scan filters them.
func (e *Engine) SetTasks(tasks []models.ScheduledTask) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = tasks
}

// Tasks returns a copy of the held task list.
func (e *Engine) Tasks() []models.ScheduledTask {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.ScheduledTask, len(e.tasks))
	copy(out, e.tasks)
	return out
}

// FixMissingDates fills an empty DateLocal on held tasks with today's local
// date, making tasks from sources that omit the date eligible for scanning.
func (e *Engine) FixMissingDates() {
	e.mu.Lock()
	defer e.mu.Unlock()
	today := e.clock.Now().Format("2006-01-02")
	for i := range e.tasks {
		if e.tasks[i].DateLocal == "" {
			e.tasks[i].DateLocal = today
		}
	}
}

// UpdateConfig merges a partial config change into the current config.
func (e *Engine) UpdateConfig(update models.AlarmConfigUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = update.Apply(e.config)
}

// Config returns the current alarm configuration.
func (e *Engine) Config() models.AlarmConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// StartMonitoring begins the recurring scan, plus one scan shortly after
// start so freshly loaded tasks are evaluated without waiting a full period.
func (e *Engine) StartMonitoring() {
	e.mu.Lock()
	if e.closed || e.stopScan != nil {
		e.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	e.stopScan = stop
	e.mu.Unlock()

	go func() {
		initial := time.NewTimer(e.opts.InitialDelay)
		defer initial.Stop()
		ticker := time.NewTicker(e.opts.ScanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-initial.C:
				e.ForceCheckAlarms()
			case <-ticker.C:
				e.ForceCheckAlarms()
			}
		}
	}()
}

// StopMonitoring cancels the recurring scan. Idempotent.
func (e *Engine) StopMonitoring() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopScan != nil {
		close(e.stopScan)
		e.stopScan = nil
	}
}

// ForceCheckAlarms runs one scan synchronously, bypassing the timer.
func (e *Engine) ForceCheckAlarms() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checkForAlarms()
}

// checkForAlarms is the scan pass. Caller holds e.mu.
func (e *Engine) checkForAlarms() {
	if e.closed || !e.config.Enabled {
		return
	}

	now := e.clock.Now()
	var notifications []models.AlarmNotification

	for _, task := range e.tasks {
		if task.Status != models.TaskStatusPending || task.TimeLocal == "" || task.DateLocal == "" {
			continue
		}

		taskTime, ok := ParseTaskTime(task.TimeLocal, task.DateLocal)
		if !ok {
			e.logger.Warnf("Could not parse time for task %q (time=%q date=%q), skipping", task.Title, task.TimeLocal, task.DateLocal)
			continue
		}

		minutesUntil := int(math.Floor(taskTime.Sub(now).Minutes()))

		if e.config.Minutes5Before && minutesUntil <= 5 && minutesUntil > 3 {
			id := fmt.Sprintf("%s-%s", task.ID, models.ThresholdTag5Min)
			if !e.wasAlreadyTriggered(id, now) {
				notifications = append(notifications, models.AlarmNotification{
					ID:               id,
					Task:             task,
					Type:             models.AlarmTypeWarning,
					Timestamp:        now,
					MinutesUntilTask: minutesUntil,
				})
			}
		}

		if e.config.Minutes1Before && minutesUntil <= 1 && minutesUntil >= 0 {
			id := fmt.Sprintf("%s-%s", task.ID, models.ThresholdTag1Min)
			if !e.wasAlreadyTriggered(id, now) {
				notifications = append(notifications, models.AlarmNotification{
					ID:               id,
					Task:             task,
					Type:             models.AlarmTypeUrgent,
					Timestamp:        now,
					MinutesUntilTask: minutesUntil,
				})
			}
		}
	}

	if len(notifications) > 0 {
		e.triggerAlarms(notifications, now)
	}
}

// triggerAlarms dispatches a batch and appends it to the observable list.
// Caller holds e.mu.
func (e *Engine) triggerAlarms(batch []models.AlarmNotification, now time.Time) {
	for i := range batch {
		n := batch[i]

		// Re-check so a rapid back-to-back scan cannot double-fire.
		if e.wasAlreadyTriggered(n.ID, now) {
			continue
		}
		// Persist the marker before any dispatch; a crash after this point
		// must not re-fire the same notification.
		e.markTriggered(n.ID, now)

		if n.Type == models.AlarmTypeUrgent {
			// Latest urgent alarm takes over the repeating slot. An already
			// scheduled repeat from a previous urgent alarm keeps ringing
			// under the new identity; it only checks that the slot is set.
			e.logger.Infof("Urgent alarm active: %s", n.ID)
			urgent := n
			e.activeUrgent = &urgent
		}

		if e.config.Sound {
			e.playAlarm(n.Type)
		}
		if e.config.Visual {
			e.showVisual(n)
		}
	}

	e.notifications = append(e.notifications, batch...)
	e.publish()
}

// wasAlreadyTriggered reports whether a persisted marker still suppresses
// the notification id. Store failures and unparsable markers count as "not
// triggered". Caller holds e.mu.
func (e *Engine) wasAlreadyTriggered(id string, now time.Time) bool {
	value, err := e.store.Get(e.ctx, models.MarkerKeyPrefix+id)
	if err != nil {
		e.logger.Warnf("Marker read failed for %s, assuming not triggered: %v", id, err)
		return false
	}
	if value == "" {
		return false
	}
	triggeredAt, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return false
	}
	return now.Sub(triggeredAt) < e.opts.Cooldown
}

// markTriggered stores the dedup marker, best effort. Caller holds e.mu.
func (e *Engine) markTriggered(id string, now time.Time) {
	if err := e.store.Set(e.ctx, models.MarkerKeyPrefix+id, now.Format(time.RFC3339Nano)); err != nil {
		e.logger.Warnf("Marker write failed for %s: %v", id, err)
	}
}

// playAlarm plays the tone for an alarm type and, for urgent alarms with an
// occupied slot, chains the next repetition. Caller holds e.mu.
func (e *Engine) playAlarm(alarmType string) {
	freq := warningToneHz
	if alarmType == models.AlarmTypeUrgent {
		freq = urgentToneHz
	}
	e.sink.PlayTone(freq, toneDuration)

	if alarmType == models.AlarmTypeUrgent && e.activeUrgent != nil {
		t := time.AfterFunc(e.opts.RepeatInterval, e.urgentRepeat)
		e.repeatTimers = append(e.repeatTimers, t)
	}
}

// urgentRepeat fires from a repeat timer; it re-checks the slot under the
// lock so an acknowledged alarm cannot resurrect the chain.
func (e *Engine) urgentRepeat() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.activeUrgent == nil {
		return
	}
	e.playAlarm(models.AlarmTypeUrgent)
}

// showVisual dispatches the visual channel, resolving permission first.
// Caller holds e.mu.
func (e *Engine) showVisual(n models.AlarmNotification) {
	if e.sink.Permission() == PermissionDefault {
		e.sink.RequestPermission()
	}
	if e.sink.Permission() != PermissionGranted {
		return
	}

	var title, body string
	if n.Type == models.AlarmTypeUrgent {
		title = "Task starting!"
		body = fmt.Sprintf("%s starts in %d minute(s)", n.Task.Title, n.MinutesUntilTask)
	} else {
		title = "Task reminder"
		body = fmt.Sprintf("%s starts in %d minutes", n.Task.Title, n.MinutesUntilTask)
	}
	e.sink.ShowNotification(title, body, n.ID)
}

// Notifications returns a copy of the current notification list.
func (e *Engine) Notifications() []models.AlarmNotification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.AlarmNotification, len(e.notifications))
	copy(out, e.notifications)
	return out
}

// HasActiveUrgentAlarm reports whether an urgent alarm is currently
// repeating.
func (e *Engine) HasActiveUrgentAlarm() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeUrgent != nil
}

// DismissNotification removes one notification. Dismissing the currently
// active urgent alarm stops its repeat chain first.
func (e *Engine) DismissNotification(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, n := range e.notifications {
		if n.ID == id && n.Type == models.AlarmTypeUrgent && e.activeUrgent != nil && e.activeUrgent.ID == id {
			e.stopUrgentAlarm()
			break
		}
	}
	e.removeNotification(id)
	e.publish()
}

// ConfirmUrgentAlarm acknowledges the active urgent alarm: the repeat chain
// stops and its notification leaves the list. No-op when nothing is active.
func (e *Engine) ConfirmUrgentAlarm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeUrgent == nil {
		return
	}
	id := e.activeUrgent.ID
	e.stopUrgentAlarm()
	e.removeNotification(id)
	e.publish()
}

// ClearAllNotifications stops any active urgent alarm and empties the list.
func (e *Engine) ClearAllNotifications() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopUrgentAlarm()
	e.notifications = nil
	e.publish()
}

// ClearTriggeredAlarmsCache deletes every persisted dedup marker, making all
// thresholds immediately eligible again.
func (e *Engine) ClearTriggeredAlarmsCache() {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys, err := e.store.Keys(e.ctx, models.MarkerKeyPrefix)
	if err != nil {
		e.logger.Warnf("Marker key scan failed: %v", err)
		return
	}
	for _, key := range keys {
		if err := e.store.Remove(e.ctx, key); err != nil {
			e.logger.Warnf("Marker delete failed for %s: %v", key, err)
		}
	}
}

// stopUrgentAlarm cancels repeat timers before clearing the slot, closing
// the window where a pending repeat could slip through. Caller holds e.mu.
func (e *Engine) stopUrgentAlarm() {
	for _, t := range e.repeatTimers {
		t.Stop()
	}
	e.repeatTimers = nil
	e.activeUrgent = nil
}

func (e *Engine) removeNotification(id string) {
	filtered := e.notifications[:0]
	for _, n := range e.notifications {
		if n.ID != id {
			filtered = append(filtered, n)
		}
	}
	e.notifications = filtered
}

// Subscribe registers an observer of the notification list. Every change
// delivers a full snapshot; a slow subscriber only ever misses intermediate
// states, never the latest one. The returned func cancels the subscription.
func (e *Engine) Subscribe() (<-chan []models.AlarmNotification, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSubID
	e.nextSubID++
	ch := make(chan []models.AlarmNotification, 1)
	e.subscribers[id] = ch

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subscribers[id]; ok {
			delete(e.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publish pushes the current list snapshot to all subscribers, replacing a
// not-yet-consumed older snapshot. Caller holds e.mu.
func (e *Engine) publish() {
	snapshot := make([]models.AlarmNotification, len(e.notifications))
	copy(snapshot, e.notifications)
	for _, ch := range e.subscribers {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// Close tears the engine down: monitoring stops, pending urgent repeats are
// cancelled, and subscriber channels close.
func (e *Engine) Close() {
	e.StopMonitoring()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.stopUrgentAlarm()
	e.cancel()
	for id, ch := range e.subscribers {
		delete(e.subscribers, id)
		close(ch)
	}
}
