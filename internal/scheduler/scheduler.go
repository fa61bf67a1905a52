package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"FinanceAssistant/internal/allocation"
	"FinanceAssistant/internal/model"
	"FinanceAssistant/internal/store"
	"FinanceAssistant/internal/ynab"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the periodic net-worth snapshot task.
type Scheduler struct {
	Cron   *cron.Cron
	Source ynab.BudgetSource
	Store  *store.Store
	Ctx    context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, src ynab.BudgetSource, st *store.Store) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Source: src,
		Store:  st,
		Ctx:    ctx,
	}
}

// Register registers the snapshot task on the given cron expression.
func (s *Scheduler) Register(snapshotCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunSnapshotNow executes the snapshot task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

func (s *Scheduler) snapshotTask() {
	log.Println("[INFO] running net-worth snapshot")
	snap, err := s.BuildSnapshot()
	if err != nil {
		log.Printf("[ERROR] build snapshot: %v", err)
		return
	}
	if err := s.Store.AddSnapshot(*snap); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
		return
	}
	log.Printf("[INFO] snapshot recorded: net worth %d liquid %d frozen %d deep-freeze %d",
		snap.NetWorth, snap.Liquid, snap.Frozen, snap.DeepFreeze)
}

// BuildSnapshot fetches budget accounts, allocates every positive balance
// across tiers, and folds in the manually tracked assets and liabilities.
func (s *Scheduler) BuildSnapshot() (*model.NetWorthSnapshot, error) {
	accounts, err := s.fetchAccountsWithRetry(3)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}

	snap := model.NetWorthSnapshot{Time: time.Now()}
	var totals model.Allocation
	for _, acct := range accounts {
		if acct.Balance <= 0 {
			// Credit cards and other debt accounts count against net worth.
			snap.Liabilities += -acct.Balance
			continue
		}
		details, err := s.Store.AccountDetails(acct.ID, strings.ToLower(acct.Type))
		if err != nil {
			log.Printf("[WARN] account details for %s: %v", acct.ID, err)
			totals.Liquid += acct.Balance
			continue
		}
		rs, err := allocation.NewRuleSet(details.AllocationRules)
		if err != nil {
			log.Printf("[WARN] rules for account %s: %v, treating balance as liquid", acct.ID, err)
			totals.Liquid += acct.Balance
			continue
		}
		totals.Add(allocation.Allocate(acct.Balance, rs))
	}
	snap.Liquid = totals.Liquid
	snap.Frozen = totals.Frozen
	snap.DeepFreeze = totals.DeepFreeze

	assets, err := s.Store.Assets()
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	for _, a := range assets {
		snap.Assets += a.Value
	}

	liabilities, err := s.Store.Liabilities()
	if err != nil {
		return nil, fmt.Errorf("list liabilities: %w", err)
	}
	for _, l := range liabilities {
		// YNAB-mirrored debts are already counted from the account balances.
		if !l.IsYNAB {
			snap.Liabilities += l.Value
		}
	}

	snap.NetWorth = snap.Liquid + snap.Frozen + snap.DeepFreeze + snap.Assets - snap.Liabilities
	return &snap, nil
}

// fetchAccountsWithRetry fetches budget accounts with exponential backoff retry.
func (s *Scheduler) fetchAccountsWithRetry(maxRetries int) ([]model.BudgetAccount, error) {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		accounts, err := s.Source.Accounts()
		if err == nil {
			return accounts, nil
		}
		lastErr = err
		backoff := time.Duration(1<<uint(i)) * time.Second
		log.Printf("[WARN] fetch accounts failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
		select {
		case <-s.Ctx.Done():
			return nil, s.Ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
