package seeders

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCoreDictionaries наполняет справочники, не имеющие зависимостей:
// отделы, категории и получателей.
func SeedCoreDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения базовых справочников...")

	if err := seedDepartments(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Отделов (Departments): %v", err)
	}
	if err := seedCategories(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Категорий (Categories): %v", err)
	}
	if err := seedRecipients(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Получателей (Recipients): %v", err)
	}
	log.Println("✅ Наполнение базовых справочников завершено!")
}

// SeedRegistries заводит журналы текущего года и их типы документов.
// Журналы зависят от отделов, поэтому запускаются после базовых справочников.
func SeedRegistries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск создания журналов регистрации...")

	if err := seedRegistries(ctx, db, time.Now().Year()); err != nil {
		log.Fatalf("❌ Ошибка создания Журналов (Registries): %v", err)
	}
	log.Println("✅ Создание журналов завершено!")
}

func seedDepartments(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение отделов...")
	for _, name := range departmentsData {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(&id)
		if err == nil {
			continue
		}
		if _, err := db.Exec(ctx, "INSERT INTO departments (name) VALUES ($1)", name); err != nil {
			return err
		}
	}
	return nil
}

func seedCategories(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение категорий...")
	for _, c := range categoriesData {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM categories WHERE name = $1", c.Name).Scan(&id)
		if err == nil {
			continue
		}
		if _, err := db.Exec(ctx,
			"INSERT INTO categories (name, default_confidentiality) VALUES ($1, $2)",
			c.Name, c.DefaultConfidentiality,
		); err != nil {
			return err
		}
	}
	return nil
}

func seedRecipients(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение получателей...")
	for _, name := range recipientsData {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM recipients WHERE name = $1", name).Scan(&id)
		if err == nil {
			continue
		}
		if _, err := db.Exec(ctx, "INSERT INTO recipients (name) VALUES ($1)", name); err != nil {
			return err
		}
	}
	return nil
}

func seedRegistries(ctx context.Context, db *pgxpool.Pool, year int) error {
	var departmentID uint64
	if err := db.QueryRow(ctx, "SELECT id FROM departments ORDER BY id LIMIT 1").Scan(&departmentID); err != nil {
		return err
	}

	for _, r := range registriesData {
		var registryID uint64
		err := db.QueryRow(ctx,
			"SELECT id FROM registries WHERE code = $1 AND year = $2", r.Code, year,
		).Scan(&registryID)
		if err != nil {
			log.Printf("  - Создание журнала '%s' (%d)...", r.Code, year)
			err = db.QueryRow(ctx, `
				INSERT INTO registries (code, name, department_id, year, is_active)
				VALUES ($1, $2, $3, $4, TRUE)
				RETURNING id`,
				r.Code, r.Name, departmentID, year,
			).Scan(&registryID)
			if err != nil {
				return err
			}
		}

		for _, dt := range r.DocumentTypes {
			var dtID uint64
			err := db.QueryRow(ctx,
				"SELECT id FROM document_types WHERE name = $1 AND registry_id = $2", dt, registryID,
			).Scan(&dtID)
			if err == nil {
				continue
			}
			if _, err := db.Exec(ctx,
				"INSERT INTO document_types (name, registry_id) VALUES ($1, $2)", dt, registryID,
			); err != nil {
				return err
			}
		}
	}
	return nil
}
