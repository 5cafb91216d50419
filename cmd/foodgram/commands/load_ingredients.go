package commands

import (
	"fmt"
	"os"

	"foodgram/cmd/config"
	"foodgram/pkg/ingredient"

	"github.com/spf13/cobra"
)

var ingredientsFile string

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients",
	Short: "Import ingredients from a CSV file",
	Long: `Import ingredients from a "name,measurement_unit" CSV file. The first row
is treated as a header. Any malformed row aborts the import and nothing is
stored.

Examples:
  foodgram load-ingredients --file data/ingredients.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(ingredientsFile)
		if err != nil {
			return err
		}
		defer f.Close()

		db, err := config.ConnectDB()
		if err != nil {
			return err
		}

		service := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
		n, err := service.ImportCSV(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("import %s: %w", ingredientsFile, err)
		}
		cmd.Printf("loaded %d ingredients from %s\n", n, ingredientsFile)
		return nil
	},
}

func init() {
	loadIngredientsCmd.Flags().StringVarP(&ingredientsFile, "file", "f", "data/ingredients.csv", "CSV file to import")
	rootCmd.AddCommand(loadIngredientsCmd)
}
