package controllers

import (
	"net/http"
	"strconv"

	"organizo/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Svc *services.Services
}

func (nc *NotificationController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := services.NotificationFilter{
		Unread: c.Query("unread") == "true",
		Limit:  limit,
		Offset: offset,
	}

	notifications, unread, err := nc.Svc.ListNotifications(currentUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := nc.Svc.MarkRead(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	if err := nc.Svc.MarkAllRead(currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (nc *NotificationController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := nc.Svc.DeleteNotification(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func (nc *NotificationController) DeleteRead(c *gin.Context) {
	if err := nc.Svc.DeleteReadNotifications(currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All read notifications deleted"})
}
