// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"estimation-workers/pkg/registry"
)

var registryPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	idAdd := addCmd.String("id", "", "Estimator ID (e.g., calculate-roi)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Calculate Upgrade ROI)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., estimation)")
	taskType := addCmd.String("taskType", "", "Zeebe Task Type (e.g., calculate-roi)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Estimator ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	// Validate command flags
	validateCmd.StringVar(&registryPath, "path", "configs/estimator-registry.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description, category, and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		estimator := registry.Estimator{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *implStatus,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{},
			Timeout:              "10s",
			Retries:              0,
			Workflows:            []string{},
			Tags:                 []string{},
		}
		err := addEstimator(&estimator)
		if err != nil {
			fmt.Printf("Error adding estimator: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added estimator: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err := updateEstimator(*idUpdate, *field, *value)
		if err != nil {
			fmt.Printf("Error updating estimator: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated estimator %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		err := validateRegistry()
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "help":
		fallthrough
	default:
		help()
	}
}

func addEstimator(estimator *registry.Estimator) error {
	reg, err := registry.Load(registryPath)
	if err != nil {
		// If file doesn't exist, create new registry
		if os.IsNotExist(err) {
			reg = &registry.EstimatorRegistry{
				Version:    "1.0.0",
				Estimators: []registry.Estimator{},
			}
		} else {
			return fmt.Errorf("failed to load registry: %w", err)
		}
	}

	// Check if estimator already exists
	for _, existing := range reg.Estimators {
		if existing.ID == estimator.ID {
			return fmt.Errorf("estimator with ID %s already exists", estimator.ID)
		}
	}

	reg.Estimators = append(reg.Estimators, *estimator)
	return reg.Save(registryPath)
}

func updateEstimator(id, field, value string) error {
	reg, err := registry.Load(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Estimators {
		if reg.Estimators[i].ID == id {
			found = true
			switch field {
			case "status":
				reg.Estimators[i].ImplementationStatus = value
			case "version":
				reg.Estimators[i].Version = value
			case "displayName":
				reg.Estimators[i].DisplayName = value
			case "description":
				reg.Estimators[i].Description = value
			case "category":
				reg.Estimators[i].Category = value
			case "taskType":
				reg.Estimators[i].TaskType = value
			case "timeout":
				reg.Estimators[i].Timeout = value
			case "retries":
				retries, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("invalid retries value: %w", err)
				}
				reg.Estimators[i].Retries = retries
			default:
				return fmt.Errorf("unknown field: %s", field)
			}
			break
		}
	}

	if !found {
		return fmt.Errorf("estimator with ID %s not found", id)
	}

	return reg.Save(registryPath)
}

func validateRegistry() error {
	reg, err := registry.Load(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	if err := reg.Validate(); err != nil {
		return err
	}

	fmt.Printf("Registry validation passed. Found %d estimators.\n", len(reg.Estimators))
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add     Add a new estimator to the registry
  update  Update an existing estimator's field
  validate Validate the registry file
  help    Show this help message

Examples:
  registry-updater add -id calculate-roas -displayName "Calculate True ROAS" -description "Adjusts reported ROAS for new buyer discounts" -category estimation -taskType calculate-roas
  registry-updater update -id calculate-roas -field status -value completed
  registry-updater validate -path configs/estimator-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
