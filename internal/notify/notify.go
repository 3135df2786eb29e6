package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

const appName = "brainy"

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Runner executes the notification command
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     Runner
}

// NewNotifier creates a notifier that shells out to notify-send
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, run: execRunner}
}

// NewWithRunner creates a notifier that hands commands to run
func NewWithRunner(enabled bool, run Runner) *Notifier {
	return &Notifier{enabled: enabled, run: run}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Args builds the notify-send argument list
func Args(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", appName)

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}
	return n.run("notify-send", Args(notification)...)
}

// SendSimple sends a simple notification with title and body
func (n *Notifier) SendSimple(title, body string) error {
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}

// SendLevelUp celebrates reaching a new level
func (n *Notifier) SendLevelUp(level, xp int) error {
	return n.Send(Notification{
		Title:   fmt.Sprintf("Level %d reached!", level),
		Body:    fmt.Sprintf("%d XP and counting.", xp),
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "starred-symbolic",
	})
}

// SendFocusComplete sends a focus session completion notification
func (n *Notifier) SendFocusComplete(minutes, streak int) error {
	return n.Send(Notification{
		Title:   "Focus session complete!",
		Body:    fmt.Sprintf("%d minutes done. Session streak: %d", minutes, streak),
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "alarm-symbolic",
	})
}

// SendBreakComplete sends a break completion notification
func (n *Notifier) SendBreakComplete() error {
	return n.Send(Notification{
		Title:   "Break Over",
		Body:    "Time to get back to work!",
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "appointment-soon-symbolic",
	})
}

// SendDueReminder sends a task due reminder
func (n *Notifier) SendDueReminder(taskTitle string, dueIn time.Duration) error {
	var body string
	if dueIn <= 0 {
		body = "Task is now overdue!"
	} else if dueIn < time.Hour {
		body = "Task due in less than an hour"
	} else {
		body = "Task due soon"
	}

	urgency := UrgencyNormal
	if dueIn <= 0 {
		urgency = UrgencyCritical
	}

	return n.Send(Notification{
		Title:   taskTitle,
		Body:    body,
		Urgency: urgency,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}
