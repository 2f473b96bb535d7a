package main

import (
	"casestatus-backend/cmd/casestatus-cli/commands"
	"casestatus-backend/internal/components/telemetry"
	"context"
)

func main() {
	telemetry.InitSlog(false)
	commands.ExecuteContext(context.Background())
}
