package main

import (
	"log"
	"time"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/infra/cache"
	"app/internal/infra/db"
	"app/internal/infra/event"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

func main() {
	//.envはローカル開発用。なければ環境変数だけで動く
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}

	//スキーマはSQLマイグレーションで管理する
	if err := db.RunMigrations(cfg.MigrationsDir); err != nil {
		log.Fatal(err)
	}

	//Redis（カートミラー）
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	mirror := cache.NewCartMirror(redisClient, 24*time.Hour)

	//Kafka（注文イベント）
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBrokers...),
		Topic:    cfg.KafkaOrderTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer kafkaWriter.Close()
	events := event.NewKafkaOrderPublisher(kafkaWriter)

	//Repository（GORM実装）生成
	storeRepo := infraRepo.NewStoreGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	comboRepo := infraRepo.NewComboGormRepository(gormDB)
	bowlRepo := infraRepo.NewBowlGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	voucherRepo := infraRepo.NewVoucherGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	qrGen := usecase.PickupQRGenerator{BaseURL: cfg.PublicBaseURL}

	//Usecase生成
	storeUC := usecase.NewStoreUsecase(storeRepo)
	productUC := usecase.NewProductUsecase(productRepo)
	comboUC := usecase.NewComboUsecase(comboRepo)
	bowlUC := usecase.NewBowlUsecase(bowlRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo, comboRepo, bowlRepo, mirror)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	voucherUC := usecase.NewVoucherUsecase(voucherRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, customerRepo, addressRepo, storeRepo, mirror, events, idGen, cfg.PaymentGatewayURL)
	orderUC := usecase.NewOrderUsecase(txManager, qrGen)

	//Handler生成
	handlers := server.Handlers{
		Store:    handler.NewStoreHandler(storeUC),
		Product:  handler.NewProductHandler(productUC),
		Combo:    handler.NewComboHandler(comboUC),
		Bowl:     handler.NewBowlHandler(bowlUC),
		Cart:     handler.NewCartHandler(cartUC),
		Address:  handler.NewAddressHandler(addressUC),
		Voucher:  handler.NewVoucherHandler(voucherUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Order:    handler.NewOrderHandler(orderUC),
	}

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, cfg, handlers); err != nil {
		log.Fatal(err)
	}
}
