package postgres

import (
	"context"
	"testing"

	"github.com/ardanpr/expense-report-portal/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserRepository Suite")
}

var _ = Describe("UserRepository", func() {
	var (
		db   *gorm.DB
		repo user.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&user.User{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewUserRepository(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("should insert a fresh credential", func() {
		u := &user.User{GPN: "1023004", Email: "a@example.com", PasswordHash: "hash-1"}
		Expect(repo.UpsertByGPN(ctx, u)).To(Succeed())
		Expect(u.ID).To(BeNumerically(">", 0))
	})

	It("should overwrite email and hash on a gpn conflict instead of duplicating", func() {
		first := &user.User{GPN: "1023004", Email: "a@example.com", PasswordHash: "hash-1"}
		Expect(repo.UpsertByGPN(ctx, first)).To(Succeed())

		second := &user.User{GPN: "1023004", Email: "b@example.com", PasswordHash: "hash-2"}
		Expect(repo.UpsertByGPN(ctx, second)).To(Succeed())

		var count int64
		Expect(db.Model(&user.User{}).Count(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1)))

		var stored user.User
		Expect(db.Where("gpn = ?", "1023004").First(&stored).Error).NotTo(HaveOccurred())
		Expect(stored.Email).To(Equal("b@example.com"))
		Expect(stored.PasswordHash).To(Equal("hash-2"))
	})

	It("should keep credentials for different gpns apart", func() {
		Expect(repo.UpsertByGPN(ctx, &user.User{GPN: "1023004", Email: "a@example.com", PasswordHash: "h1"})).To(Succeed())
		Expect(repo.UpsertByGPN(ctx, &user.User{GPN: "1023005", Email: "b@example.com", PasswordHash: "h2"})).To(Succeed())

		var count int64
		Expect(db.Model(&user.User{}).Count(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(2)))
	})
})
