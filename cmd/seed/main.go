package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"formpulse/internal/config"
	"formpulse/internal/model"
	"formpulse/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	userRepo := repository.NewUserRepo(db)
	formRepo := repository.NewFormRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	user := &model.User{
		Email:        "demo@formpulse.dev",
		Name:         "Demo Owner",
		PasswordHash: string(hash),
	}
	if _, err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	form := &model.Form{
		OwnerID:     user.ID,
		Title:       "Product Launch Feedback",
		Description: "Tell us how the launch went for you.",
		Published:   true,
		Sections: []model.Section{
			{
				ID:    "sec-about",
				Title: "About you",
				Questions: []model.Question{
					{ID: "q-email", Text: "Work e-mail", Type: model.QuestionTypeEmail, Required: true, Position: 0},
					{ID: "q-role", Text: "Your role", Type: model.QuestionTypeDropdown, Required: true, Position: 1,
						Options: []string{"Engineering", "Product", "Design", "Other"}},
					{ID: "q-start", Text: "When did you start using the product?", Type: model.QuestionTypeDate, Position: 2},
				},
			},
			{
				ID:       "sec-feedback",
				Title:    "Your feedback",
				Position: 1,
				Questions: []model.Question{
					{ID: "q-rating", Text: "Overall satisfaction (1-5)", Type: model.QuestionTypeRating, Required: true, Position: 0},
					{ID: "q-features", Text: "Which features do you use?", Type: model.QuestionTypeCheckbox, Position: 1,
						Options: []string{"Dashboards", "Exports", "Alerts", "API"}},
					{ID: "q-channel", Text: "How did you hear about us?", Type: model.QuestionTypeMultipleChoice, Position: 2,
						Options: []string{"Search", "A colleague", "Social media"}},
					{ID: "q-count", Text: "How many teammates use it?", Type: model.QuestionTypeNumber, Position: 3},
					{ID: "q-improve", Text: "What should we improve?", Type: model.QuestionTypeLongText, Position: 4},
					{ID: "q-screenshot", Text: "Attach a screenshot (optional)", Type: model.QuestionTypeFileUpload, Position: 5},
				},
			},
		},
	}
	if _, err := formRepo.Create(ctx, form); err != nil {
		log.Fatalf("Failed to create demo form: %v", err)
	}

	ratings := []string{"5", "4", "oops", "3", "5", "4"} // one dirty row on purpose
	features := [][]string{
		{"Dashboards", "API"},
		{"Dashboards"},
		{"Exports", "Alerts", "Exports"},
		nil,
		{"API"},
		{"Dashboards", "Alerts"},
	}
	channels := []string{"Search", "A colleague", "Search", "Social media", "Search", "A colleague"}

	now := time.Now()
	for i, rating := range ratings {
		answers := []model.Answer{
			{QuestionID: "q-email", Text: fmt.Sprintf("user%d@example.com", i+1)},
			{QuestionID: "q-role", Value: pick(form.Sections[0].Questions[1].Options, i)},
			{QuestionID: "q-rating", Text: rating},
			{QuestionID: "q-channel", Value: channels[i]},
			{QuestionID: "q-count", Text: fmt.Sprintf("%d", rand.Intn(20)+1)},
			{QuestionID: "q-improve", Text: "More keyboard shortcuts would be great."},
		}
		if features[i] != nil {
			answers = append(answers, model.Answer{QuestionID: "q-features", Value: features[i]})
		}

		response := &model.Response{
			FormID:      form.ID,
			SubmittedAt: now.AddDate(0, 0, -(i % 4)).Add(-time.Duration(i*3) * time.Hour),
			Answers:     answers,
		}
		if i%2 == 0 {
			response.UserID = user.ID
		}
		if _, err := responseRepo.Create(ctx, response); err != nil {
			log.Fatalf("Failed to create demo response: %v", err)
		}
	}

	fmt.Printf("Seeded demo user %s with form %q and %d responses\n", user.Email, form.Title, len(ratings))
}

func pick(options []string, i int) string {
	return options[i%len(options)]
}
