package runoverduesweep

import "time"

const commandType = "RunOverdueSweep"

// Command represents the intent to assess fines for all overdue loans as of
// a point in time.
type Command struct {
	AsOf time.Time
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(asOf time.Time) Command {
	return Command{AsOf: asOf}
}
