package modehandler

import (
	"time"

	"github.com/bethropolis/composer/internal/logger"
)

// startLeader arms the leader state until the next key or the timeout.
func (mh *ModeHandler) startLeader() {
	mh.leaderMu.Lock()
	defer mh.leaderMu.Unlock()
	mh.leaderWaiting = true
	if mh.leaderTimer != nil {
		mh.leaderTimer.Stop()
	}
	mh.leaderTimer = time.AfterFunc(mh.leaderTimeout, func() {
		mh.leaderMu.Lock()
		expired := mh.leaderWaiting
		mh.leaderWaiting = false
		mh.leaderTimer = nil
		mh.leaderMu.Unlock()
		if expired {
			logger.Debugf("Leader key timed out")
			mh.requestRedraw()
		}
	})
}

// takeLeader consumes a pending leader state.
func (mh *ModeHandler) takeLeader() bool {
	mh.leaderMu.Lock()
	defer mh.leaderMu.Unlock()
	if !mh.leaderWaiting {
		return false
	}
	mh.leaderWaiting = false
	if mh.leaderTimer != nil {
		mh.leaderTimer.Stop()
		mh.leaderTimer = nil
	}
	return true
}
