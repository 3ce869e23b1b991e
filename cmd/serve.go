package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/fourscore/scoresv/corpus"
	"github.com/fourscore/scoresv/model"
	"github.com/fourscore/scoresv/query"
	"github.com/fourscore/scoresv/sv"
)

var (
	servePort  int
	serveFiles []corpus.File
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "listen port")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve <dir>",
	Short: "Serves slice-file statistics over HTTP",
	Long:  `Serves chord statistics for every slice file found under a directory.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := corpus.Scan(args[0])
		if err != nil {
			return err
		}
		serveFiles = files
		log.Info("corpus loaded", "dir", args[0], "files", len(files))

		router := mux.NewRouter().StrictSlash(true)
		router.HandleFunc("/files", handleFiles).Methods("GET")
		router.HandleFunc("/files/{id}/triads", handleTriads).Methods("GET")
		router.HandleFunc("/files/{id}/follow", handleFollow).Methods("POST")
		handler := cors.Default().Handler(router)

		log.Info("listening", "port", servePort)
		return http.ListenAndServe(fmt.Sprintf(":%d", servePort), handler)
	},
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func loadFile(w http.ResponseWriter, r *http.Request) ([]model.Slice, bool) {
	id := mux.Vars(r)["id"]
	f, ok := corpus.ById(serveFiles, id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no file with id %v", id))
		return nil, false
	}
	data, err := sv.ReadFile(f.Path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return data, true
}

func handleFiles(w http.ResponseWriter, r *http.Request) {
	res := make([]model.FileOverview, 0, len(serveFiles))
	for _, f := range serveFiles {
		res = append(res, model.FileOverview{Id: f.Id, Name: f.Name})
	}
	json.NewEncoder(w).Encode(res)
}

func handleTriads(w http.ResponseWriter, r *http.Request) {
	data, ok := loadFile(w, r)
	if !ok {
		return
	}
	stats, err := query.CompareAllPrimes(query.Primes(data), []string{"triads"}, true, true)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	json.NewEncoder(w).Encode(stats)
}

func handleFollow(w http.ResponseWriter, r *http.Request) {
	data, ok := loadFile(w, r)
	if !ok {
		return
	}

	var input model.FollowRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not unmarshal request body: %w", err))
		return
	}
	if input.HowMany == 0 {
		input.HowMany = 15
	}

	followed := query.FollowChord(query.Primes(data), input.Chord, input.HowMany, input.IgnoreFirst)
	res := make([]model.FollowResult, 0, len(followed))
	for _, s := range followed {
		res = append(res, model.FollowResult{Chord: s.Label, Count: s.Count})
	}
	json.NewEncoder(w).Encode(res)
}
