package reminder

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/agenda-pro/internal/clock"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
)

// Store é a fatia do repositório que o scheduler precisa.
type Store interface {
	FindPendingInWindow(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
	MarkReminderSent(ctx context.Context, appointmentID uint, at time.Time) (bool, error)
}

// Sender entrega o lembrete ao cliente.
type Sender interface {
	Send(ctx context.Context, ap models.Appointment) error
}

// Scheduler varre periodicamente os agendamentos pendentes que começam
// dentro da janela [agora, agora+window) e dispara um lembrete para
// cada um, marcando reminder_sent só depois do envio dar certo.
type Scheduler struct {
	store    Store
	sender   Sender
	clock    clock.Clock
	interval time.Duration
	window   time.Duration
}

func NewScheduler(store Store, sender Sender) *Scheduler {
	return &Scheduler{
		store:    store,
		sender:   sender,
		clock:    clock.Real{},
		interval: 30 * time.Minute,
		window:   30 * time.Minute,
	}
}

func (s *Scheduler) WithInterval(d time.Duration) *Scheduler {
	if d > 0 {
		s.interval = d
	}
	if s.window < s.interval {
		s.window = s.interval
	}
	return s
}

func (s *Scheduler) WithWindow(d time.Duration) *Scheduler {
	if d > 0 {
		s.window = d
	}
	// janela menor que o intervalo deixaria horários sem lembrete
	if s.window < s.interval {
		s.window = s.interval
	}
	return s
}

func (s *Scheduler) WithClock(c clock.Clock) *Scheduler {
	if c != nil {
		s.clock = c
	}
	return s
}

// Run bloqueia até o contexto ser cancelado. Faz uma varredura
// imediata na partida e depois a cada intervalo.
func (s *Scheduler) Run(ctx context.Context) {
	if err := s.Sweep(ctx); err != nil {
		log.Println("reminder sweep error:", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Println("reminder sweep error:", err)
			}
		}
	}
}

// Sweep processa uma varredura. Falha de envio de um lembrete não
// interrompe os demais; o agendamento fica sem marca e é retomado na
// próxima varredura.
func (s *Scheduler) Sweep(ctx context.Context) error {
	now := s.clock.Now()

	due, err := s.store.FindPendingInWindow(ctx, now, now.Add(s.window))
	if err != nil {
		return err
	}

	for _, ap := range due {
		if ap.ClientEmail == "" {
			// sem canal de contato, nada a enviar
			continue
		}

		if err := s.sender.Send(ctx, ap); err != nil {
			log.Printf("reminder send failed (appointment %d): %v", ap.ID, err)
			continue
		}

		if _, err := s.store.MarkReminderSent(ctx, ap.ID, s.clock.Now()); err != nil {
			log.Printf("reminder mark failed (appointment %d): %v", ap.ID, err)
		}
	}

	return nil
}
