package services

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces/gateways"
	"github.com/ochairo/casebot/internal/external-adapters/zaplog"
)

func observedLogger() (*zaplog.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zaplog.New(zap.New(core)), logs
}

func sampleCatalog(artifacts map[string]string) *Catalog {
	records := []entities.TestCaseRecord{
		entities.NewTestCaseRecord(0, "Login Success", "verify login", "tests/ui/auth/test_login.py", map[string]string{"priority": "high"}),
		entities.NewTestCaseRecord(1, "Checkout Flow", "complete a purchase with a cart", "", nil),
		entities.NewTestCaseRecord(2, "Profile Update", "change display name", "", nil),
	}
	return NewCatalog("test_cases.csv",
		[]string{"title", "description", "script_path", "priority"},
		records,
		entities.NewArtifactIndex("tests/ui", artifacts),
	)
}

type fakeOracle struct {
	recordIndex  int
	recordOK     bool
	artifactPath string
	artifactOK   bool
	err          error

	recordCalls   int
	artifactCalls int
}

func (o *fakeOracle) SelectRecord(_ context.Context, _ string, _ []entities.TestCaseRecord) (int, bool, error) {
	o.recordCalls++
	return o.recordIndex, o.recordOK, o.err
}

func (o *fakeOracle) SelectArtifact(_ context.Context, _ entities.TestCaseRecord, _ *entities.ArtifactIndex) (string, bool, error) {
	o.artifactCalls++
	return o.artifactPath, o.artifactOK, o.err
}

type fakeGateway struct {
	err   error
	calls []gateways.WorkflowDispatch
	wait  bool
}

func (g *fakeGateway) DispatchWorkflow(ctx context.Context, dispatch gateways.WorkflowDispatch) error {
	g.calls = append(g.calls, dispatch)
	if g.wait {
		<-ctx.Done()
		return ctx.Err()
	}
	return g.err
}
