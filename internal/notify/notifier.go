package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hemdhoni222/todo-app/internal/domain"
	"github.com/hemdhoni222/todo-app/internal/log"
	"github.com/hemdhoni222/todo-app/internal/mail"
	"github.com/hemdhoni222/todo-app/internal/metrics"
	"github.com/hemdhoni222/todo-app/internal/queue"
)

// Notifier delivers assignment mail. Dispatch is fire-and-forget: the create
// response never waits on it and per-recipient failures are logged, not
// surfaced.
type Notifier struct {
	Sender  mail.Sender
	Events  queue.Publisher
	Timeout time.Duration

	// wg lets tests wait for in-flight dispatches; production never does.
	wg sync.WaitGroup
}

func New(sender mail.Sender, events queue.Publisher, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{Sender: sender, Events: events, Timeout: timeout}
}

// TaskAssigned schedules one notification per assignee and returns
// immediately. One recipient failing never blocks the rest.
func (n *Notifier) TaskAssigned(creator domain.User, assignees []domain.User, task domain.Task) {
	for _, a := range assignees {
		a := a
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.dispatch(creator, a, task)
		}()
	}
}

func (n *Notifier) dispatch(creator, assignee domain.User, task domain.Task) {
	ctx, cancel := context.WithTimeout(context.Background(), n.Timeout)
	defer cancel()

	subject := "New Task Assignment"
	body := composeBody(creator, task)

	done := make(chan error, 1)
	go func() { done <- n.Sender.Send(assignee.Email, subject, body) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("error").Inc()
		log.L().Warn("assignment notification failed",
			zap.String("to", assignee.Email),
			zap.String("task_id", task.ID.Hex()),
			zap.Error(err))
	} else {
		metrics.NotificationsSent.WithLabelValues("ok").Inc()
	}

	// The mail context may already be spent (timeout above); the event
	// still has to go out, so it gets its own bound.
	pctx, pcancel := context.WithTimeout(context.Background(), n.Timeout)
	defer pcancel()
	if perr := n.Events.Publish(pctx, "task.assigned", queue.TaskAssigned{
		TaskID:     task.ID.Hex(),
		Title:      task.Title,
		CreatorID:  creator.ID.Hex(),
		AssigneeID: assignee.ID.Hex(),
	}); perr != nil {
		log.L().Warn("task.assigned event publish failed",
			zap.String("task_id", task.ID.Hex()), zap.Error(perr))
	}
}

// Wait blocks until all scheduled dispatches finish. Test hook.
func (n *Notifier) Wait() { n.wg.Wait() }

func composeBody(creator domain.User, task domain.Task) string {
	due := "No due date"
	if task.DueDate != nil {
		due = task.DueDate.Format("1/2/2006")
	}
	return fmt.Sprintf(`
            <h2>New Task Assigned</h2>
            <p><strong>%s</strong> has assigned you a new task:</p>
            <h3>%s</h3>
            <p>%s</p>
            <p>Priority: %s</p>
            <p>Due Date: %s</p>
          `, creator.Name, task.Title, task.Description, task.Priority, due)
}
