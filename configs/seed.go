package configs

import (
	"log"

	"backend/entity"

	"golang.org/x/crypto/bcrypt"
)

// SeedDemoTenant creates a demo restaurant with menu, tables and an owner
// login so a fresh database is immediately usable.
func SeedDemoTenant() error {
	db := DB()

	var tenant entity.Tenant
	if err := db.Where(entity.Tenant{Slug: "himalayan-bites"}).
		Attrs(entity.Tenant{
			Name:             "Himalayan Bites",
			Currency:         "NPR",
			ServiceChargePct: 10,
			TaxPct:           13,
			Active:           true,
		}).
		FirstOrCreate(&tenant).Error; err != nil {
		return err
	}

	var mains entity.Category
	if err := db.Where(entity.Category{TenantID: tenant.ID, Name: "Mains"}).
		FirstOrCreate(&mains).Error; err != nil {
		return err
	}
	var drinks entity.Category
	if err := db.Where(entity.Category{TenantID: tenant.ID, Name: "Drinks"}).
		FirstOrCreate(&drinks).Error; err != nil {
		return err
	}

	menu := []entity.MenuItem{
		{Name: "Momo", Price: 150, CategoryID: mains.ID, TenantID: tenant.ID, Available: true},
		{Name: "Chowmein", Price: 120, CategoryID: mains.ID, TenantID: tenant.ID, Available: true},
		{Name: "Dal Bhat", Price: 250, CategoryID: mains.ID, TenantID: tenant.ID, Available: true},
		{Name: "Masala Tea", Price: 40, CategoryID: drinks.ID, TenantID: tenant.ID, Available: true},
		{Name: "Lassi", Price: 80, CategoryID: drinks.ID, TenantID: tenant.ID, Available: true},
	}
	for _, m := range menu {
		if err := db.Where(entity.MenuItem{TenantID: tenant.ID, Name: m.Name}).
			Attrs(m).FirstOrCreate(&entity.MenuItem{}).Error; err != nil {
			return err
		}
	}

	for _, label := range []string{"T-01", "T-02", "T-03", "T-04"} {
		if err := db.Where(entity.Table{TenantID: tenant.ID, Label: label}).
			Attrs(entity.Table{Status: entity.TableAvailable}).
			FirstOrCreate(&entity.Table{}).Error; err != nil {
			return err
		}
	}

	return seedOwner(tenant.ID)
}

func seedOwner(tenantID uint) error {
	db := DB()
	email := getEnv("OWNER_EMAIL", "")
	pass := getEnv("OWNER_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding owner: missing OWNER_EMAIL/OWNER_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	owner := entity.User{
		Email:    email,
		Password: string(hash),
		Name:     "Owner",
		Role:     "owner",
		TenantID: tenantID,
	}
	return db.Create(&owner).Error
}
