package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed artifacts.sql
var artifactsSQL string

//go:embed activities.sql
var activitiesSQL string

// Function lists for verification
var ArtifactsFunctions = []string{
	"init_artifacts",
	"insert_project",
	"select_project",
	"insert_artifact",
	"select_artifact",
	"select_artifacts_by_project",
	"select_all_artifacts",
	"select_artifacts_referencing",
	"update_artifact",
	"delete_artifact",
}

var ActivitiesFunctions = []string{
	"init_activities",
	"select_activity",
	"mark_activity",
	"reset_activity",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadArtifactsSql loads project and artifact SQL functions
func LoadArtifactsSql(db *sql.DB, force bool) error {
	return loadSql(db, "artifacts", artifactsSQL, ArtifactsFunctions, force)
}

// LoadActivitiesSql loads activity SQL functions
func LoadActivitiesSql(db *sql.DB, force bool) error {
	return loadSql(db, "activities", activitiesSQL, ActivitiesFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadArtifactsSql(db, force); err != nil {
		return err
	}

	if err := LoadActivitiesSql(db, force); err != nil {
		return err
	}

	return nil
}

func loadSql(db *sql.DB, name string, script string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
