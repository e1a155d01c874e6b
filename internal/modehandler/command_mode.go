package modehandler

import (
	"errors"
	"strings"

	"github.com/bethropolis/composer/internal/commands"
	"github.com/bethropolis/composer/internal/input"
	"github.com/bethropolis/composer/internal/logger"
)

// handleActionCommand handles actions when in ModeCommand.
func (mh *ModeHandler) handleActionCommand(ae input.ActionEvent) bool {
	switch ae.Action {
	case input.ActionInsertRune:
		mh.cmdBuffer = append(mh.cmdBuffer, ae.Rune)

	case input.ActionDeleteCharBackward:
		if len(mh.cmdBuffer) > 0 {
			mh.cmdBuffer = mh.cmdBuffer[:len(mh.cmdBuffer)-1]
		} else {
			mh.currentMode = ModeNormal
			mh.statusBar.ResetTemporaryMessage()
			logger.Debugf("ModeHandler: exiting command mode via backspace")
		}

	case input.ActionInsertNewLine:
		line := string(mh.cmdBuffer)
		mh.cmdBuffer = mh.cmdBuffer[:0]
		mh.currentMode = ModeNormal
		mh.statusBar.ResetTemporaryMessage()
		mh.executeCommand(line)

	case input.ActionQuit:
		mh.currentMode = ModeNormal
		mh.cmdBuffer = mh.cmdBuffer[:0]
		mh.statusBar.ResetTemporaryMessage()
		logger.Debugf("ModeHandler: cancelled command mode")

	default:
		return false
	}
	return true
}

// executeCommand runs a command line through the registry.
func (mh *ModeHandler) executeCommand(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	switch line {
	case "q", "quit":
		mh.handleActionNormal(input.ActionEvent{Action: input.ActionQuit})
		return
	case "q!", "quit!":
		mh.quit()
		return
	case "w", "save":
		mh.handleActionNormal(input.ActionEvent{Action: input.ActionSaveDraft})
		return
	}

	logger.Debugf("ModeHandler: executing command ':%s'", line)
	err := mh.commands.Execute(line)
	switch {
	case err == nil:
	case errors.Is(err, commands.ErrUnknownCommand):
		mh.statusBar.SetTemporaryMessage("Unknown command: %s", strings.Fields(line)[0])
	default:
		mh.report(err, strings.Fields(line)[0])
	}
}
