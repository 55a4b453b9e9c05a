package initializers

import (
	"context"
	"time"

	"case-flow-backend/config"
	"case-flow-backend/fiberlog"
	authhandler "case-flow-backend/lib/auth"
	"case-flow-backend/lib/caseflow"
	xlsexport "case-flow-backend/lib/export/xls"
	"case-flow-backend/lib/flow"
	digestworker "case-flow-backend/lib/mailer/digest-worker"
	outboxworker "case-flow-backend/lib/mailer/outbox-worker"
	"case-flow-backend/lib/notify"
	policyhandler "case-flow-backend/lib/policy"
	usershandler "case-flow-backend/lib/users"
	connectionhub "case-flow-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	flow.NewHandler()
	policyhandler.NewHandler()
	notify.NewHandler()
	caseflow.NewHandler()
	authhandler.NewHandler()
	usershandler.NewHandler()
	xlsexport.NewHandler()
	go initWorkers(ctx)
}

// workers start staggered to spread the load after boot
func initWorkers(ctx context.Context) {
	go outboxworker.NewInstance(10*time.Second, 15*time.Second).Start(ctx)
	if makeTimeGap(ctx) {
		go digestworker.NewInstance(time.Minute, 5*time.Minute).Start(ctx)
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
