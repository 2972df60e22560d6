package seed

import (
	"time"

	"linkboard/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run inserts the demo data set: an admin user, the route boards, a default
// board with two cards, and the singleton system settings. It is a no-op when
// boards already exist.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Board{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		admin := model.User{
			ID:             uuid.New(),
			Email:          "admin@linkboard.local",
			Username:       "admin",
			DisplayName:    "Administrator",
			HashedPassword: string(hash),
			Role:           model.RoleAdmin,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		boards := []model.Board{
			{
				ID: "default", BoardName: "Default", BoardURL: "default",
				Name: "Linkboard", Headline: "All my links in one place",
				OwnerUserID: admin.ID, UpdatedAt: now,
				Cards: []model.Card{
					{ID: "github", Label: "GitHub", Href: "https://github.com", Position: 0},
					{ID: "linkedin", Label: "LinkedIn", Href: "https://linkedin.com", Position: 1},
				},
			},
			{ID: "home", BoardName: "Home", BoardURL: "home", Name: "Home", OwnerUserID: admin.ID, UpdatedAt: now},
			{ID: "insights", BoardName: "Insights", BoardURL: "insights", Name: "Insights", OwnerUserID: admin.ID, UpdatedAt: now},
			{ID: "settings", BoardName: "Settings", BoardURL: "settings", Name: "Settings", OwnerUserID: admin.ID, UpdatedAt: now},
			{ID: "signin", BoardName: "Sign in", BoardURL: "signin", Name: "Sign in", OwnerUserID: admin.ID, UpdatedAt: now},
		}
		for i := range boards {
			if err := tx.Create(&boards[i]).Error; err != nil {
				return err
			}
		}

		widgets := []model.Widget{
			{BoardID: "settings", Type: model.WidgetTypeUserSettings, Title: "Your settings", Layout: "span-2", ConfigJSON: "{}", Enabled: true, SortOrder: 0},
			{BoardID: "settings", Type: model.WidgetTypeAdminSettings, Title: "Admin", Layout: "span-2", ConfigJSON: "{}", Enabled: true, SortOrder: 1},
			{BoardID: "signin", Type: model.WidgetTypeSignin, Title: "Sign in", Layout: "span-2", ConfigJSON: "{}", Enabled: true, SortOrder: 0},
			{BoardID: "signin", Type: model.WidgetTypeSignup, Title: "Sign up", Layout: "span-2", ConfigJSON: "{}", Enabled: true, SortOrder: 1},
		}
		for i := range widgets {
			if err := tx.Create(&widgets[i]).Error; err != nil {
				return err
			}
		}

		settings := model.SystemSettings{
			ID:                    model.SystemSettingsSingletonID,
			GlobalHomepageBoardID: "home",
			GlobalInsightsBoardID: "insights",
			GlobalSettingsBoardID: "settings",
			GlobalSigninBoardID:   "signin",
			GlobalSignupBoardID:   "signin",
			UpdatedAt:             now,
		}
		return tx.Create(&settings).Error
	})
}
