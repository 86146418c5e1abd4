package routes

import (
	"annam-mithra-backend/internal/api/handlers"
	"annam-mithra-backend/internal/middleware"
	"annam-mithra-backend/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	DonationHandler handlers.DonationHandler
	InterestHandler handlers.InterestHandler
	ChatHandler     handlers.ChatHandler
	TagHandler      handlers.TagHandler
	Middleware      middleware.Middleware
	TokenVerifier   auth.TokenVerifier
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Donations()
	c.Chats()
	c.Tags()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users", c.Middleware.AuthMiddleware(c.TokenVerifier))
	{
		user.Get("/me", c.UserHandler.Me)
		user.Post("/profile", c.UserHandler.UpdateProfile)
		user.Post("/device-token", c.UserHandler.RegisterDeviceToken)
		user.Get("/badges", c.UserHandler.GetBadges)
	}
}

func (c *Config) Donations() {
	authRequired := c.Middleware.AuthMiddleware(c.TokenVerifier)
	donations := c.App.Group("/api/v1/donations")
	{
		// Discovery stays open so receivers can browse before signing in.
		donations.Get("/nearby", c.DonationHandler.GetNearbyDonations)

		donations.Post("", authRequired, c.DonationHandler.SubmitDonation)
		donations.Get("", authRequired, c.DonationHandler.GetMyDonations)
		donations.Patch("/:id/quantity", authRequired, c.DonationHandler.AdjustQuantity)
		donations.Delete("/:id", authRequired, c.DonationHandler.RemoveDonation)

		donations.Post("/interest", authRequired, c.InterestHandler.RequestInterest)
		donations.Get("/interests/received", authRequired, c.InterestHandler.GetReceivedInterests)
		donations.Get("/interests/sent", authRequired, c.InterestHandler.GetSentInterests)
		donations.Post("/interests/accept", authRequired, c.InterestHandler.AcceptInterest)
		donations.Post("/interests/decline", authRequired, c.InterestHandler.DeclineInterest)
	}
}

func (c *Config) Chats() {
	chats := c.App.Group("/api/v1/chats", c.Middleware.AuthMiddleware(c.TokenVerifier))
	{
		chats.Get("", c.ChatHandler.GetRooms)
		chats.Post("/send", c.ChatHandler.SendMessage)
		chats.Get("/ws", c.ChatHandler.WebsocketUpgrade, c.ChatHandler.WebsocketHandler())
		chats.Get("/:donationId/:otherUid/messages", c.ChatHandler.GetMessages)
		chats.Post("/:donationId/:otherUid/read", c.ChatHandler.MarkRead)
	}
}

func (c *Config) Tags() {
	authRequired := c.Middleware.AuthMiddleware(c.TokenVerifier)
	tags := c.App.Group("/api/v1/tags")
	{
		tags.Get("/nearby", c.TagHandler.GetNearbyTags)
		tags.Post("", authRequired, c.TagHandler.CreateTag)
		tags.Post("/:id/verify", authRequired, c.TagHandler.VerifyTag)
	}
}
