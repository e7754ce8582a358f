package effects

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelin/estate-notify/internal/core/domain"
	"github.com/avelin/estate-notify/internal/core/ports"
)

// maxPendingToasts bounds the queue between the pipeline and the UI. A UI
// that stops draining loses the oldest toasts, never the pipeline.
const maxPendingToasts = 64

// ToastPresenter queues in-app toasts for the UI layer. Presenting is
// fire-and-forget: it never blocks the delivery pipeline.
type ToastPresenter struct {
	mu      sync.Mutex
	pending []domain.Toast
	logger  *slog.Logger
}

var (
	_ ports.SideEffectExecutor = (*ToastPresenter)(nil)
	_ ports.ToastPresenter     = (*ToastPresenter)(nil)
)

// NewToastPresenter creates the in-app toast executor.
func NewToastPresenter(logger *slog.Logger) *ToastPresenter {
	return &ToastPresenter{
		logger: logger.With("component", "toast"),
	}
}

func (p *ToastPresenter) Name() string {
	return "toast"
}

// Execute queues a toast when the policy asks for one.
func (p *ToastPresenter) Execute(_ context.Context, n domain.Notification, policy domain.NotificationPolicy) error {
	if !policy.ShowToast {
		return nil
	}

	p.push(domain.Toast{
		ID:       uuid.New(),
		Title:    n.Title,
		Message:  n.Message,
		Variant:  policy.ToastVariant,
		Duration: policy.ToastDuration,
	})
	return nil
}

// PresentError surfaces a user-visible error toast. Only explicit diagnostic
// actions (the test-event trigger) use this path.
func (p *ToastPresenter) PresentError(title, message string) {
	p.push(domain.Toast{
		ID:       uuid.New(),
		Title:    title,
		Message:  message,
		Variant:  domain.VariantError,
		Duration: 6 * time.Second,
	})
}

// Drain returns and clears the pending toasts, oldest first.
func (p *ToastPresenter) Drain() []domain.Toast {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.pending
	p.pending = nil
	return out
}

// Pending returns the number of queued toasts.
func (p *ToastPresenter) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *ToastPresenter) push(t domain.Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.pending) >= maxPendingToasts {
		p.logger.Warn("toast queue full, dropping oldest", "dropped", p.pending[0].Title)
		p.pending = p.pending[1:]
	}
	p.pending = append(p.pending, t)
}
