package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/h4ks-com/palay/internal/config"
	"github.com/h4ks-com/palay/internal/database"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/h4ks-com/palay/internal/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type seedFixtures struct {
	Users    []seedUser    `yaml:"users"`
	Laborers []seedLaborer `yaml:"laborers"`
	Groups   []seedGroup   `yaml:"groups"`
	Products []seedProduct `yaml:"products"`
}

type seedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
}

type seedLaborer struct {
	Owner    string `yaml:"owner"`
	Name     string `yaml:"name"`
	Phone    string `yaml:"phone"`
	Rate     string `yaml:"rate"`
	RateType string `yaml:"rate_type"`
}

type seedGroup struct {
	Owner   string   `yaml:"owner"`
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

type seedProduct struct {
	Farmer       string `yaml:"farmer"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Unit         string `yaml:"unit"`
	PricePerUnit string `yaml:"price_per_unit"`
	Quantity     string `yaml:"quantity"`
	QualityGrade string `yaml:"quality_grade"`
}

var (
	seedFile   string
	seedStrict bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users, laborers, groups and products from a YAML file",
	Long: `Load fixtures from a YAML file.

Expected YAML format:

  users:
    - {username: mang-jose, password: changeme123, name: Jose Santos, role: farmer}
  laborers:
    - {owner: mang-jose, name: Pedro, rate: "500", rate_type: per_day}
  groups:
    - {owner: mang-jose, name: Harvest crew, members: [Pedro]}
  products:
    - {farmer: mang-jose, name: Dinorado, unit: kg, price_per_unit: "62.50", quantity: "1200"}

Entries that fail validation are skipped and logged. Use --strict to stop
at the first failure instead.`,
	Example: `  palay seed -f fixtures.yaml
  palay seed --file fixtures.yaml --strict`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSeed(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture file (required)")
	seedCmd.Flags().BoolVar(&seedStrict, "strict", false, "Fail on any validation error")
	seedCmd.MarkFlagRequired("file")
}

type seeder struct {
	accounts *services.AccountService
	laborers *services.LaborerService
	products *services.ProductService
	userRepo *repository.UserRepository
	strict   bool

	// laborer IDs keyed by owner username and laborer name
	laborerIDs map[string]uint

	imported int
	skipped  int
}

func newSeeder(db *gorm.DB, strict bool) *seeder {
	userRepo := repository.NewUserRepository(db)
	return &seeder{
		accounts:   services.NewAccountService(userRepo),
		laborers:   services.NewLaborerService(repository.NewLaborerRepository(db), repository.NewLaborerGroupRepository(db)),
		products:   services.NewProductService(repository.NewProductRepository(db), userRepo, db),
		userRepo:   userRepo,
		strict:     strict,
		laborerIDs: make(map[string]uint),
	}
}

func loadFixtures(path string) (seedFixtures, error) {
	var fixtures seedFixtures

	data, err := os.ReadFile(path)
	if err != nil {
		return fixtures, fmt.Errorf("failed to read file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return fixtures, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return fixtures, nil
}

func runSeed() error {
	if seedFile == "" {
		return fmt.Errorf("file path is required")
	}

	fixtures, err := loadFixtures(seedFile)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return err
	}

	if err := database.Migrate(db); err != nil {
		return err
	}

	s := newSeeder(db, seedStrict)

	log.Printf("Seeding %d users, %d laborers, %d groups, %d products from %s",
		len(fixtures.Users), len(fixtures.Laborers), len(fixtures.Groups), len(fixtures.Products), seedFile)

	if err := s.seed(fixtures); err != nil {
		return err
	}

	log.Printf("Seed complete: %d imported, %d skipped", s.imported, s.skipped)
	return nil
}

func (s *seeder) seed(fixtures seedFixtures) error {
	for _, u := range fixtures.Users {
		if err := s.record("user "+u.Username, s.seedUser(u)); err != nil {
			return err
		}
	}
	for _, l := range fixtures.Laborers {
		if err := s.record("laborer "+l.Name, s.seedLaborer(l)); err != nil {
			return err
		}
	}
	for _, g := range fixtures.Groups {
		if err := s.record("group "+g.Name, s.seedGroup(g)); err != nil {
			return err
		}
	}
	for _, p := range fixtures.Products {
		if err := s.record("product "+p.Name, s.seedProduct(p)); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) record(what string, err error) error {
	if err == nil {
		s.imported++
		return nil
	}
	if s.strict {
		return fmt.Errorf("seed failed for %s: %w", what, err)
	}
	log.Printf("Skipped %s: %v", what, err)
	s.skipped++
	return nil
}

func (s *seeder) seedUser(u seedUser) error {
	_, err := s.accounts.Register(services.RegisterInput{
		Username: u.Username,
		Password: u.Password,
		Name:     u.Name,
		Email:    u.Email,
		Role:     models.Role(u.Role),
	})
	return err
}

func (s *seeder) seedLaborer(l seedLaborer) error {
	ownerID, err := s.userID(l.Owner)
	if err != nil {
		return err
	}
	rate, err := parseAmount("rate", l.Rate)
	if err != nil {
		return err
	}

	laborer, err := s.laborers.CreateLaborer(ownerID, services.LaborerInput{
		Name:     l.Name,
		Phone:    l.Phone,
		Rate:     rate,
		RateType: models.RateType(l.RateType),
	})
	if err != nil {
		return err
	}
	s.laborerIDs[laborerKey(l.Owner, l.Name)] = laborer.ID
	return nil
}

func (s *seeder) seedGroup(g seedGroup) error {
	ownerID, err := s.userID(g.Owner)
	if err != nil {
		return err
	}

	memberIDs := make([]uint, 0, len(g.Members))
	for _, member := range g.Members {
		laborerID, ok := s.laborerIDs[laborerKey(g.Owner, member)]
		if !ok {
			return fmt.Errorf("unknown laborer %q", member)
		}
		memberIDs = append(memberIDs, laborerID)
	}

	group, err := s.laborers.CreateGroup(ownerID, services.GroupInput{Name: g.Name})
	if err != nil {
		return err
	}
	for _, laborerID := range memberIDs {
		if _, err := s.laborers.AddMember(ownerID, group.ID, laborerID); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedProduct(p seedProduct) error {
	farmerID, err := s.userID(p.Farmer)
	if err != nil {
		return err
	}
	price, err := parseAmount("price_per_unit", p.PricePerUnit)
	if err != nil {
		return err
	}
	quantity, err := parseAmount("quantity", p.Quantity)
	if err != nil {
		return err
	}

	_, err = s.products.CreateProduct(farmerID, services.ProductInput{
		Name:              p.Name,
		Description:       p.Description,
		Unit:              p.Unit,
		PricePerUnit:      price,
		QuantityAvailable: quantity,
		QualityGrade:      p.QualityGrade,
	})
	return err
}

func (s *seeder) userID(username string) (uint, error) {
	user, err := s.userRepo.FindByUsername(strings.ToLower(username))
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, fmt.Errorf("unknown user %q", username)
	}
	return user.ID, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, value)
	}
	return d, nil
}

func laborerKey(owner, name string) string {
	return strings.ToLower(owner) + "/" + name
}
