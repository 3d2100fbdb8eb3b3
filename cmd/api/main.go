package main

import (
	"math/rand"
	"time"

	"agrimarket/internal/ai"
	"agrimarket/internal/config"
	"agrimarket/internal/domain/model"
	"agrimarket/internal/handler"
	"agrimarket/internal/infra/db"
	infraRepo "agrimarket/internal/infra/repository"
	"agrimarket/internal/payment"
	"agrimarket/internal/server"
	"agrimarket/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無くても起動する（本番は環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Crop{},
		&model.Order{},
		&model.Escrow{},
	); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	cropRepo := infraRepo.NewCropGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//外部コラボレータ（どちらもモック）
	gateway := payment.NewMockGateway()
	advisor := ai.NewMockAdvisor(rand.NewSource(time.Now().UnixNano()))

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, cfg)
	cropUC := usecase.NewCropUsecase(cropRepo, advisor, logger)
	orderUC := usecase.NewOrderUsecase(txManager, cropRepo, gateway, logger)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	cropH := handler.NewCropHandler(cropUC)
	orderH := handler.NewOrderHandler(orderUC)

	//Server起動
	e := server.New(cfg, authH, cropH, orderH)
	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := server.Start(e, cfg); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.GoEnv == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
