package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"doc-registry/internal/entities"
	apperrors "doc-registry/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPool *pgxpool.Pool

// TestMain настраивает соединение с тестовой БД и применяет схему.
// Без TEST_DATABASE_URL интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl == "" {
		log.Println("TEST_DATABASE_URL не задан, интеграционные тесты репозиториев пропущены")
		os.Exit(0)
	}

	var err error
	testPool, err = pgxpool.New(context.Background(), testDbUrl)
	if err != nil {
		log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	defer testPool.Close()

	applySchema(testPool)

	code := m.Run()
	os.Exit(code)
}

// applySchema читает и выполняет DDL-скрипт для создания таблиц в тестовой БД.
func applySchema(pool *pgxpool.Pool) {
	path, _ := filepath.Abs("../../testdata/schema.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Не удалось прочитать schema.sql: %v", err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("Не удалось применить схему БД: %v", err)
	}
}

// cleanupTables очищает таблицы для обеспечения изоляции тестов.
func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE TABLE audit_events, attachments, registrations, registry_counters,
			document_types, recipients, registries, categories, departments
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

// seedDictionaries создает минимальный набор справочников для тестов.
func seedDictionaries(t *testing.T, pool *pgxpool.Pool) (registryID, documentTypeID, recipientID uint64) {
	t.Helper()
	ctx := context.Background()

	var departmentID uint64
	err := pool.QueryRow(ctx, `INSERT INTO departments (name) VALUES ('Общий отдел') RETURNING id`).Scan(&departmentID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx, `
		INSERT INTO registries (code, name, department_id, year, is_active)
		VALUES ('ВХ', 'Журнал входящей корреспонденции', $1, 2026, TRUE)
		RETURNING id`, departmentID).Scan(&registryID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx, `
		INSERT INTO document_types (name, registry_id) VALUES ('Входящее письмо', $1) RETURNING id`,
		registryID).Scan(&documentTypeID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx, `INSERT INTO recipients (name) VALUES ('Канцелярия') RETURNING id`).Scan(&recipientID)
	require.NoError(t, err)

	return
}

func newTestRegistration(registryID, documentTypeID, recipientID uint64, number string) *entities.Registration {
	return &entities.Registration{
		RegistryID:     registryID,
		DocumentTypeID: documentTypeID,
		Number:         number,
		Year:           2026,
		RegisteredAt:   time.Now(),
		Sender:         "ООО Ромашка",
		RecipientID:    recipientID,
		Subject:        "Тестовое письмо",
		Status:         "registered",
		CreatedBy:      1,
	}
}

func TestSequenceRepository_Integration_NextInTx(t *testing.T) {
	require.NotNil(t, testPool, "testPool не инициализирован")
	cleanupTables(t, testPool)
	registryID, _, _ := seedDictionaries(t, testPool)

	repo := NewSequenceRepository()
	ctx := context.Background()

	var first, second int
	err := WithTx(ctx, testPool, func(tx pgx.Tx) error {
		var txErr error
		first, txErr = repo.NextInTx(ctx, tx, registryID, 2026)
		return txErr
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first, "пустой журнал начинается с единицы")

	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		var txErr error
		second, txErr = repo.NextInTx(ctx, tx, registryID, 2026)
		return txErr
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second)
}

func TestSequenceRepository_Integration_SeedsFromLegacyMax(t *testing.T) {
	require.NotNil(t, testPool)
	cleanupTables(t, testPool)
	registryID, documentTypeID, recipientID := seedDictionaries(t, testPool)

	// Журнал с историей, но без строки-счётчика: номера выдавались до
	// появления счётчиков. Первая выдача должна продолжить с максимума.
	regRepo := NewRegistrationRepository(testPool)
	ctx := context.Background()
	for _, number := range []string{"ВХ-0003", "ВХ-0007", "ВХ-0005"} {
		err := WithTx(ctx, testPool, func(tx pgx.Tx) error {
			_, txErr := regRepo.CreateInTx(ctx, tx, newTestRegistration(registryID, documentTypeID, recipientID, number))
			return txErr
		})
		require.NoError(t, err)
	}

	seqRepo := NewSequenceRepository()
	var next int
	err := WithTx(ctx, testPool, func(tx pgx.Tx) error {
		var txErr error
		next, txErr = seqRepo.NextInTx(ctx, tx, registryID, 2026)
		return txErr
	})
	require.NoError(t, err)
	assert.Equal(t, 8, next)
}

func TestSequenceRepository_Integration_EnsureAtLeast(t *testing.T) {
	require.NotNil(t, testPool)
	cleanupTables(t, testPool)
	registryID, _, _ := seedDictionaries(t, testPool)

	repo := NewSequenceRepository()
	ctx := context.Background()

	err := WithTx(ctx, testPool, func(tx pgx.Tx) error {
		return repo.EnsureAtLeastInTx(ctx, tx, registryID, 2026, 41)
	})
	require.NoError(t, err)

	// Понижать счётчик EnsureAtLeast не должен.
	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		return repo.EnsureAtLeastInTx(ctx, tx, registryID, 2026, 5)
	})
	require.NoError(t, err)

	var next int
	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		var txErr error
		next, txErr = repo.NextInTx(ctx, tx, registryID, 2026)
		return txErr
	})
	require.NoError(t, err)
	assert.Equal(t, 42, next)
}

// Конкурентная выдача: каждый участник получает свой номер, дублей нет.
func TestSequenceRepository_Integration_ConcurrentAllocation(t *testing.T) {
	require.NotNil(t, testPool)
	cleanupTables(t, testPool)
	registryID, documentTypeID, recipientID := seedDictionaries(t, testPool)

	seqRepo := NewSequenceRepository()
	regRepo := NewRegistrationRepository(testPool)
	ctx := context.Background()

	// Первая выдача засевает строку-счётчик. Конкурентный засев намеренно
	// завершается ErrDuplicateNumber и отдаётся на повтор сервису, поэтому
	// здесь счётчик создаётся заранее.
	err := WithTx(ctx, testPool, func(tx pgx.Tx) error {
		seq, txErr := seqRepo.NextInTx(ctx, tx, registryID, 2026)
		if txErr != nil {
			return txErr
		}
		_, txErr = regRepo.CreateInTx(ctx, tx, newTestRegistration(registryID, documentTypeID, recipientID, fmt.Sprintf("ВХ-%04d", seq)))
		return txErr
	})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = WithTx(ctx, testPool, func(tx pgx.Tx) error {
				seq, txErr := seqRepo.NextInTx(ctx, tx, registryID, 2026)
				if txErr != nil {
					return txErr
				}
				reg := newTestRegistration(registryID, documentTypeID, recipientID, fmt.Sprintf("ВХ-%04d", seq))
				_, txErr = regRepo.CreateInTx(ctx, tx, reg)
				return txErr
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "участник %d", i)
	}

	var distinct, total int
	err = testPool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT number), COUNT(*) FROM registrations WHERE registry_id = $1`, registryID,
	).Scan(&distinct, &total)
	require.NoError(t, err)
	assert.Equal(t, workers+1, total)
	assert.Equal(t, total, distinct, "все выданные номера уникальны")
}

func TestRegistrationRepository_Integration_DuplicateNumber(t *testing.T) {
	require.NotNil(t, testPool)
	cleanupTables(t, testPool)
	registryID, documentTypeID, recipientID := seedDictionaries(t, testPool)

	repo := NewRegistrationRepository(testPool)
	ctx := context.Background()

	err := WithTx(ctx, testPool, func(tx pgx.Tx) error {
		_, txErr := repo.CreateInTx(ctx, tx, newTestRegistration(registryID, documentTypeID, recipientID, "ВХ-0001"))
		return txErr
	})
	require.NoError(t, err)

	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		_, txErr := repo.CreateInTx(ctx, tx, newTestRegistration(registryID, documentTypeID, recipientID, "ВХ-0001"))
		return txErr
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateNumber)
}

func TestAttachmentRepository_Integration_BindSkipsOwned(t *testing.T) {
	require.NotNil(t, testPool)
	cleanupTables(t, testPool)
	registryID, documentTypeID, recipientID := seedDictionaries(t, testPool)

	regRepo := NewRegistrationRepository(testPool)
	attRepo := NewAttachmentRepository(testPool)
	ctx := context.Background()

	var firstID, secondID uint64
	err := WithTx(ctx, testPool, func(tx pgx.Tx) error {
		var txErr error
		firstID, txErr = regRepo.CreateInTx(ctx, tx, newTestRegistration(registryID, documentTypeID, recipientID, "ВХ-0001"))
		if txErr != nil {
			return txErr
		}
		secondID, txErr = regRepo.CreateInTx(ctx, tx, newTestRegistration(registryID, documentTypeID, recipientID, "ВХ-0002"))
		return txErr
	})
	require.NoError(t, err)

	freeID, err := attRepo.Create(ctx, &entities.Attachment{
		OriginalName: "свободное.pdf", DiskName: "a.pdf", RelativePath: "2026/a.pdf",
		Extension: ".pdf", MimeType: "application/pdf", SizeBytes: 10, ContentHash: "aa", UploadedBy: 1,
	})
	require.NoError(t, err)
	ownedID, err := attRepo.Create(ctx, &entities.Attachment{
		OriginalName: "занятое.pdf", DiskName: "b.pdf", RelativePath: "2026/b.pdf",
		Extension: ".pdf", MimeType: "application/pdf", SizeBytes: 10, ContentHash: "bb", UploadedBy: 1,
	})
	require.NoError(t, err)

	// Привязываем второе вложение к первой записи.
	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		bound, txErr := attRepo.BindToRegistrationInTx(ctx, tx, []uint64{ownedID}, firstID)
		require.Equal(t, 1, bound)
		return txErr
	})
	require.NoError(t, err)

	// Попытка забрать оба вложения во вторую запись: занятое пропускается.
	var bound int
	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		var txErr error
		bound, txErr = attRepo.BindToRegistrationInTx(ctx, tx, []uint64{freeID, ownedID}, secondID)
		return txErr
	})
	require.NoError(t, err)
	assert.Equal(t, 1, bound)

	owned, err := attRepo.FindByID(ctx, ownedID)
	require.NoError(t, err)
	require.True(t, owned.RegistrationID.Valid)
	assert.Equal(t, firstID, owned.RegistrationID.Uint64, "занятое вложение остаётся у первой записи")
}

func TestAttachmentRepository_Integration_DocumentDateScopedByID(t *testing.T) {
	require.NotNil(t, testPool)
	cleanupTables(t, testPool)
	registryID, documentTypeID, recipientID := seedDictionaries(t, testPool)

	regRepo := NewRegistrationRepository(testPool)
	attRepo := NewAttachmentRepository(testPool)
	ctx := context.Background()

	var registrationID uint64
	err := WithTx(ctx, testPool, func(tx pgx.Tx) error {
		var txErr error
		registrationID, txErr = regRepo.CreateInTx(ctx, tx, newTestRegistration(registryID, documentTypeID, recipientID, "ВХ-0001"))
		return txErr
	})
	require.NoError(t, err)

	firstID, err := attRepo.Create(ctx, &entities.Attachment{
		OriginalName: "старое.pdf", DiskName: "a.pdf", RelativePath: "2026/a.pdf",
		Extension: ".pdf", MimeType: "application/pdf", SizeBytes: 10, ContentHash: "aa", UploadedBy: 1,
	})
	require.NoError(t, err)
	secondID, err := attRepo.Create(ctx, &entities.Attachment{
		OriginalName: "новое.pdf", DiskName: "b.pdf", RelativePath: "2026/b.pdf",
		Extension: ".pdf", MimeType: "application/pdf", SizeBytes: 10, ContentHash: "bb", UploadedBy: 1,
	})
	require.NoError(t, err)

	docDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		if _, txErr := attRepo.BindToRegistrationInTx(ctx, tx, []uint64{firstID, secondID}, registrationID); txErr != nil {
			return txErr
		}
		// Дата ставится только второму вложению, первое не трогается.
		return attRepo.SetDocumentDateInTx(ctx, tx, registrationID, []uint64{secondID}, docDate)
	})
	require.NoError(t, err)

	first, err := attRepo.FindByID(ctx, firstID)
	require.NoError(t, err)
	assert.False(t, first.DocumentDate.Valid, "дата документа соседнего вложения не должна меняться")

	second, err := attRepo.FindByID(ctx, secondID)
	require.NoError(t, err)
	require.True(t, second.DocumentDate.Valid)
	assert.Equal(t, docDate.Format("2006-01-02"), second.DocumentDate.Time.Format("2006-01-02"))

	// Пустой список означает все вложения записи.
	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		return attRepo.SetDocumentDateInTx(ctx, tx, registrationID, nil, docDate)
	})
	require.NoError(t, err)

	first, err = attRepo.FindByID(ctx, firstID)
	require.NoError(t, err)
	assert.True(t, first.DocumentDate.Valid)
}

func TestRegistrationRepository_Integration_DeleteCascadesAttachments(t *testing.T) {
	require.NotNil(t, testPool)
	cleanupTables(t, testPool)
	registryID, documentTypeID, recipientID := seedDictionaries(t, testPool)

	regRepo := NewRegistrationRepository(testPool)
	attRepo := NewAttachmentRepository(testPool)
	ctx := context.Background()

	var regID uint64
	err := WithTx(ctx, testPool, func(tx pgx.Tx) error {
		var txErr error
		regID, txErr = regRepo.CreateInTx(ctx, tx, newTestRegistration(registryID, documentTypeID, recipientID, "ВХ-0001"))
		return txErr
	})
	require.NoError(t, err)

	attID, err := attRepo.Create(ctx, &entities.Attachment{
		OriginalName: "приказ.pdf", DiskName: "c.pdf", RelativePath: "2026/c.pdf",
		Extension: ".pdf", MimeType: "application/pdf", SizeBytes: 10, ContentHash: "cc", UploadedBy: 1,
	})
	require.NoError(t, err)
	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		_, txErr := attRepo.BindToRegistrationInTx(ctx, tx, []uint64{attID}, regID)
		return txErr
	})
	require.NoError(t, err)

	err = WithTx(ctx, testPool, func(tx pgx.Tx) error {
		return regRepo.DeleteInTx(ctx, tx, regID)
	})
	require.NoError(t, err)

	_, err = attRepo.FindByID(ctx, attID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "строки вложений удаляются каскадом по внешнему ключу")
}
