package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/VictorWes/PontoDosJogosFull/internal/domain"
	"github.com/VictorWes/PontoDosJogosFull/internal/events"
	"github.com/VictorWes/PontoDosJogosFull/internal/gateway"
	"github.com/VictorWes/PontoDosJogosFull/internal/store"
	"github.com/VictorWes/PontoDosJogosFull/internal/tokenstore"
)

type Config struct {
	APIBaseURL   string
	TokenDir     string
	RedisAddr    string
	KafkaBrokers string
	KafkaTopic   string
}

func loadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	home, _ := os.UserHomeDir()
	return &Config{
		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:8080"),
		TokenDir:     getEnv("TOKEN_DIR", filepath.Join(home, ".pontodosjogos")),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "storefront-events"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	var tokens store.TokenStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		tokens = tokenstore.NewRedis(client)
	} else {
		tokens = tokenstore.NewFile(cfg.TokenDir)
	}

	var emitter store.Emitter = events.Log{}
	if cfg.KafkaBrokers != "" {
		kafkaEmitter := events.NewKafka(cfg.KafkaTopic, strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaEmitter.Close()
		emitter = kafkaEmitter
	}

	gw := gateway.NewClient(cfg.APIBaseURL)
	st := store.New(gw, tokens, emitter)
	st.Hydrate(ctx)

	fmt.Println("Ponto dos Jogos — storefront client")
	fmt.Println("commands: login <email> <senha> | produtos | carrinho | add <produto> [qtd] | rm <item> | view <login|catalog|cart> | logout | sair")

	scanner := bufio.NewScanner(os.Stdin)
	prompt(st)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			prompt(st)
			continue
		}
		switch args[0] {
		case "login":
			if len(args) != 3 {
				fmt.Println("usage: login <email> <senha>")
				break
			}
			st.Login(ctx, args[1], args[2])
		case "produtos":
			st.LoadProducts(ctx)
			printProducts(st.Products().Get())
		case "carrinho":
			st.LoadCart(ctx)
			printCart(st.Cart().Get())
		case "add":
			if len(args) < 2 {
				fmt.Println("usage: add <produto> [qtd]")
				break
			}
			productID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("invalid product id")
				break
			}
			quantity := 1
			if len(args) > 2 {
				quantity, _ = strconv.Atoi(args[2])
			}
			st.AddItem(ctx, productID, quantity)
			printCart(st.Cart().Get())
		case "rm":
			if len(args) != 2 {
				fmt.Println("usage: rm <item>")
				break
			}
			itemID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("invalid item id")
				break
			}
			st.RemoveItem(ctx, itemID)
			printCart(st.Cart().Get())
		case "view":
			if len(args) != 2 {
				fmt.Println("usage: view <login|catalog|cart>")
				break
			}
			st.NavigateTo(domain.View(args[1]))
		case "logout":
			st.Logout(ctx)
		case "sair", "exit", "quit":
			return
		default:
			fmt.Printf("unknown command %q\n", args[0])
		}
		if msg := st.Err().Get(); msg != "" {
			fmt.Printf("! %s\n", msg)
		}
		prompt(st)
	}
}

func prompt(st *store.Store) {
	state := "logged out"
	if st.IsAuthenticated() {
		state = fmt.Sprintf("%d item(s) in cart", st.CartItemCount().Get())
	}
	fmt.Printf("[%s | %s] > ", st.View().Get(), state)
}

func printProducts(products []domain.Product) {
	if len(products) == 0 {
		fmt.Println("no products")
		return
	}
	for _, p := range products {
		fmt.Printf("  #%d %s — R$ %.2f (%d in stock)\n", p.ID, p.Name, p.Price, p.StockQuantity)
	}
}

func printCart(cart *domain.Cart) {
	if cart == nil {
		fmt.Println("no cart loaded")
		return
	}
	if len(cart.Items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, item := range cart.Items {
		fmt.Printf("  item %d: %dx %s — R$ %.2f\n", item.ID, item.Quantity, item.ProductName, item.Subtotal)
	}
	fmt.Printf("  total: R$ %.2f\n", cart.Total)
}
