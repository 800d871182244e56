package config

import (
	"fmt"
	"os"
	"strings"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT検証シークレット（発行は外部認証サービス）

	MigrationsDir string // SQLマイグレーションのディレクトリ

	RedisAddr string // カートミラー用Redis

	KafkaBrokers    []string // 注文イベントのブローカー
	KafkaOrderTopic string   // 注文イベントのトピック

	PaymentGatewayURL string // 外部決済ゲートウェイのベースURL
	PublicBaseURL     string // QRに埋めるこのAPIの公開URL

	GoEnv string // dev/prod
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MigrationsDir: getenv("MIGRATIONS_DIR", "migrations"),

		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),

		KafkaBrokers:    strings.Split(getenv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaOrderTopic: getenv("KAFKA_ORDER_TOPIC", "orders.placed"),

		PaymentGatewayURL: getenv("PAYMENT_GATEWAY_URL", "https://sandbox.vnpayment.vn"),
		PublicBaseURL:     getenv("PUBLIC_BASE_URL", "http://localhost:8080"),

		GoEnv: getenv("GO_ENV", "dev"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
