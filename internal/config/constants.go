package config

import "time"

// Base application details
const AppName = "composer"
const ConfigDirName = "composer"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "composer.log"
const DefaultDraftsFileName = "drafts.db"

// UI Layout
const StatusBarHeight = 1

// Input Behavior
const LeaderTimeout = 1500 * time.Millisecond

// Status Bar
const MessageTimeout = 4 * time.Second

// Editor defaults
const DefaultScrollOff = 3
const DefaultWrapWidth = 71
const DefaultHistorySize = 30
const SystemClipboard = true

// Drafts
const DefaultAutosaveInterval = 30 * time.Second
