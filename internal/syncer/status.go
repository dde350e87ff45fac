package syncer

import (
	"context"
	"log"

	"carsync-engine/internal/domain"
)

// Status reads the persisted run bookkeeping and attaches the live
// single-flight state. The lock is never persisted, so Running is always
// false right after a restart even if the last run crashed mid-flight.
func (s *Syncer) Status(ctx context.Context) (domain.SyncStatus, error) {
	st := domain.SyncStatus{Running: s.running.Load()}

	var err error
	if st.Status, err = s.db.GetSetting(ctx, SettingLastSyncStatus); err != nil {
		return st, err
	}
	if st.Status == "" {
		st.Status = StateIdle
	}
	if st.Message, err = s.db.GetSetting(ctx, SettingLastSyncMsg); err != nil {
		return st, err
	}
	if st.LastAt, err = s.db.GetSetting(ctx, SettingLastSyncAt); err != nil {
		return st, err
	}
	if st.LastCount, err = s.db.GetSettingInt(ctx, SettingLastSyncCount, 0); err != nil {
		return st, err
	}
	return st, nil
}

// RecoverStaleStatus rewrites a leftover "running" status at boot. The
// in-memory flag is authoritative and always starts free, so a persisted
// "running" seen here can only mean the previous process died mid-run.
func (s *Syncer) RecoverStaleStatus(ctx context.Context) {
	state, err := s.db.GetSetting(ctx, SettingLastSyncStatus)
	if err != nil || state != StateRunning {
		return
	}
	log.Printf("[sync] previous run was interrupted; resetting stale running status")
	s.persist(ctx, StateError, "previous sync interrupted by restart", 0)
}
