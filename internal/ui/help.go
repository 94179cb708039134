package ui

// HelpText is the static keybinding reference shown in the Help modal.
func HelpText() string {
	return `Navigation
  j/k, ↓/↑     move cursor       J/K  fast move
  h/l          collapse/expand   g/G  top/bottom
  Tab/Shift-Tab  cycle focus     Enter  open selection
  Ctrl-d/Ctrl-u  page down/up

Timeline
  ,  previous position          .  next position
  s  toggle side-by-side/unified

Pull request
  a  approve                    x  request changes
  c  comment                    o  open in editor / browser
  y  copy path or diff to clipboard

General
  r  refresh                    ?  toggle this help
  q  quit                       Esc  close modal`
}
