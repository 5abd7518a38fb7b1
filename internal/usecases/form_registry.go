package usecases

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"aeps-agent.backend/internal/domain/entities"
)

// TransactionForm is the per-agent transaction screen state: the selected
// bank and the biometric session. It lives in memory only.
type TransactionForm struct {
	mu       sync.Mutex
	bank     entities.BankSelection
	session  *BiometricSession
	inFlight sync.Mutex
}

func newTransactionForm() *TransactionForm {
	return &TransactionForm{session: NewBiometricSession()}
}

// SelectBank stores the bank picked on the form
func (f *TransactionForm) SelectBank(bank entities.BankSelection) {
	f.mu.Lock()
	f.bank = bank
	f.mu.Unlock()
}

// Bank returns the selected bank, zero if none
func (f *TransactionForm) Bank() entities.BankSelection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bank
}

// Session returns the form's biometric session
func (f *TransactionForm) Session() *BiometricSession {
	return f.session
}

// Reset clears the bank selection and the biometric capture together
func (f *TransactionForm) Reset() {
	f.mu.Lock()
	f.bank = entities.BankSelection{}
	f.mu.Unlock()
	f.session.Reset()
}

// TryBegin claims the form for a submission. It returns false when another
// submission is still running.
func (f *TransactionForm) TryBegin() bool {
	return f.inFlight.TryLock()
}

// End releases a claim taken by TryBegin
func (f *TransactionForm) End() {
	f.inFlight.Unlock()
}

// FormSnapshot is the client-visible view of a form
type FormSnapshot struct {
	Bank           *entities.BankSelection `json:"bank,omitempty"`
	BiometricState entities.SessionState   `json:"biometricState"`
	CapturedAt     *time.Time              `json:"capturedAt,omitempty"`
}

// Snapshot returns the form state without the biometric payload
func (f *TransactionForm) Snapshot() FormSnapshot {
	snap := FormSnapshot{BiometricState: f.session.State()}
	if bank := f.Bank(); !bank.IsZero() {
		snap.Bank = &bank
	}
	if at, ok := f.session.CapturedAt(); ok {
		snap.CapturedAt = &at
	}
	return snap
}

// FormRegistry keeps one TransactionForm per agent
type FormRegistry struct {
	mu    sync.Mutex
	forms map[uuid.UUID]*TransactionForm
}

func NewFormRegistry() *FormRegistry {
	return &FormRegistry{forms: make(map[uuid.UUID]*TransactionForm)}
}

// Get returns the agent's form, creating it on first use
func (r *FormRegistry) Get(agentID uuid.UUID) *TransactionForm {
	r.mu.Lock()
	defer r.mu.Unlock()

	form, ok := r.forms[agentID]
	if !ok {
		form = newTransactionForm()
		r.forms[agentID] = form
	}
	return form
}

// ExpireCaptures drops biometric captures taken before cutoff and returns how many were dropped
func (r *FormRegistry) ExpireCaptures(cutoff time.Time) int {
	r.mu.Lock()
	forms := make([]*TransactionForm, 0, len(r.forms))
	for _, f := range r.forms {
		forms = append(forms, f)
	}
	r.mu.Unlock()

	expired := 0
	for _, f := range forms {
		if f.session.ExpireBefore(cutoff) {
			expired++
		}
	}
	return expired
}
