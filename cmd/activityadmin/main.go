package main

import (
	"fmt"
	"os"

	"crm-activity-bot/internal/models"
	"crm-activity-bot/internal/repository"
	"crm-activity-bot/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// activityadmin is the operator-side companion of the bot: it prepares
// the database the bot runs against (companies, employees, activity
// types, the code sequence and the origin whitelist).

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "activityadmin",
		Short:         "Administer the CRM activity database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "activities.db", "path to the SQLite database")

	rootCmd.AddCommand(
		companyCmd(),
		employeeCmd(),
		typesCmd(),
		sequenceCmd(),
		referenceCmd(),
		partyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	return db, nil
}

func companyCmd() *cobra.Command {
	var name, timezone string

	cmd := &cobra.Command{
		Use:   "company-create",
		Short: "Create a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			repo, err := repository.NewGormCompanyRepository(db)
			if err != nil {
				return err
			}

			company := &models.Company{Name: name, Timezone: timezone}
			if timezone != "" && company.Location() == nil {
				return fmt.Errorf("unknown timezone %q", timezone)
			}
			if err := repo.Create(company); err != nil {
				return err
			}

			fmt.Printf("Created company %d: %s\n", company.ID, company.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "company name")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone, e.g. Europe/Madrid")
	cmd.MarkFlagRequired("name")

	return cmd
}

func employeeCmd() *cobra.Command {
	var name, color string
	var companyID uint
	var chatID int64

	cmd := &cobra.Command{
		Use:   "employee-create",
		Short: "Create an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			repo, err := repository.NewGormEmployeeRepository(db)
			if err != nil {
				return err
			}

			employee := &models.Employee{
				Name:      name,
				CompanyID: companyID,
				ChatID:    chatID,
				Color:     color,
			}
			if !employee.IsValid() {
				return fmt.Errorf("employee needs a name and a company")
			}
			if err := repo.Create(employee); err != nil {
				return err
			}

			fmt.Printf("Created employee %d: %s\n", employee.ID, employee.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "employee name")
	cmd.Flags().UintVar(&companyID, "company", 0, "company id")
	cmd.Flags().Int64Var(&chatID, "chat-id", 0, "Telegram chat id (optional)")
	cmd.Flags().StringVar(&color, "color", "", "calendar color #RRGGBB (optional)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("company")

	return cmd
}

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types-seed <file.yaml>",
		Short: "Seed activity types from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var seeds []service.ActivityTypeSeed
			if err := yaml.Unmarshal(raw, &seeds); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			repo, err := repository.NewGormActivityTypeRepository(db)
			if err != nil {
				return err
			}

			created, err := service.NewActivityTypeService(repo).Seed(seeds)
			if err != nil {
				return err
			}

			fmt.Printf("Seeded %d of %d activity types\n", created, len(seeds))
			return nil
		},
	}
}

func sequenceCmd() *cobra.Command {
	var prefix string
	var padding int

	cmd := &cobra.Command{
		Use:   "sequence-set",
		Short: "Configure the activity code sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			repo, err := repository.NewGormConfigurationRepository(db)
			if err != nil {
				return err
			}

			sequence := &models.Sequence{
				Name:    "Activity",
				Prefix:  prefix,
				Padding: padding,
				Next:    1,
			}
			if err := repo.SetSequence(sequence); err != nil {
				return err
			}

			fmt.Printf("Activity codes will look like %s\n", sequence.Format(1))
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "ACT", "code prefix")
	cmd.Flags().IntVar(&padding, "padding", 5, "zero padding width")

	return cmd
}

func referenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reference-add <model>",
		Short: "Whitelist a model as an activity resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			repo, err := repository.NewGormConfigurationRepository(db)
			if err != nil {
				return err
			}

			if err := repo.AddReference(args[0]); err != nil {
				return err
			}

			fmt.Printf("Model %q can now be an activity resource\n", args[0])
			return nil
		},
	}
}

func partyCmd() *cobra.Command {
	var fromCode, toCode string

	cmd := &cobra.Command{
		Use:   "party-replace",
		Short: "Move every activity from one party to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			partyRepo, err := repository.NewGormPartyRepository(db)
			if err != nil {
				return err
			}
			activityRepo, err := repository.NewGormActivityRepository(db)
			if err != nil {
				return err
			}

			moved, err := service.NewPartyService(partyRepo, activityRepo).Replace(fromCode, toCode)
			if err != nil {
				return err
			}

			fmt.Printf("Moved %d activities from %s to %s\n", moved, fromCode, toCode)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromCode, "from", "", "source party code")
	cmd.Flags().StringVar(&toCode, "to", "", "target party code")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}
