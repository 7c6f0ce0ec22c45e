package panel

type ModeKind int

const (
	ModeCreate ModeKind = iota
	ModeUpdate
)

// Mode tells a submit whether the form creates a new entity or updates the
// one picked by Edit. Only Edit sets ModeUpdate; clearing the form resets it.
type Mode struct {
	Kind ModeKind
	ID   int64 // set only for ModeUpdate
}

func CreateMode() Mode {
	return Mode{Kind: ModeCreate}
}

func UpdateMode(id int64) Mode {
	return Mode{Kind: ModeUpdate, ID: id}
}

func (m Mode) IsUpdate() bool {
	return m.Kind == ModeUpdate
}

func (m Mode) String() string {
	if m.IsUpdate() {
		return "update"
	}
	return "create"
}

// Form is the single create/edit surface of a panel.
type Form struct {
	Mode   Mode
	Values map[string]string
}

func emptyForm() Form {
	return Form{Mode: CreateMode(), Values: map[string]string{}}
}
