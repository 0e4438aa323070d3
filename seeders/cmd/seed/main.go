package main

import (
	"context"
	"flag"
	"log"

	"doc-registry/pkg/config"
	"doc-registry/pkg/database/postgresql"
	"doc-registry/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runCore := flag.Bool("core", false, "Запустить наполнение базовых справочников (отделы, категории, получатели)")
	runRegistries := flag.Bool("registries", false, "Запустить создание журналов регистрации текущего года")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -core -registries)")

	flag.Parse()

	if !*runCore && !*runRegistries && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -core")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к базе данных: %v", err)
	}
	defer dbPool.Close()

	log.Println("======================================================")

	if *runAll || *runCore {
		seeders.SeedCoreDictionaries(dbPool)
		log.Println("======================================================")
	}

	if *runAll || *runRegistries {
		// Журналы зависят от отделов.
		seeders.SeedRegistries(dbPool)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
