package game

// CommandKind identifies a discrete player command.
type CommandKind int

const (
	CmdQuit CommandKind = iota
	CmdTogglePause
	CmdReload
	CmdShoot
	CmdSetDifficulty
	CmdToggleMute
	CmdVolumeUp
	CmdVolumeDown
	CmdToggleMenu
	CmdPreviewCue
	CmdReset
)

// Command is a keyboard, mouse or CLI event. Difficulty and Cue are only
// meaningful for CmdSetDifficulty and CmdPreviewCue.
type Command struct {
	Kind       CommandKind
	Difficulty Difficulty
	Cue        Cue
}

// Cmd returns a command without arguments.
func Cmd(k CommandKind) Command { return Command{Kind: k} }

// SetDifficulty returns a difficulty select command.
func SetDifficulty(d Difficulty) Command { return Command{Kind: CmdSetDifficulty, Difficulty: d} }

// PreviewCue returns a sound test command.
func PreviewCue(c Cue) Command { return Command{Kind: CmdPreviewCue, Cue: c} }

// volumeStep is the change per VolumeUp or VolumeDown.
const volumeStep = 5
