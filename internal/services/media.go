package services

import (
	"context"
	"time"
)

// accessors lets the media core read and stamp an entity without knowing its type
type accessors[T any] struct {
	title     func(*T) string
	imageURL  func(*T) string
	setImage  func(*T, string)
	updatedAt func(*T) time.Time
	stamp     func(t *T, created, updated time.Time)
}

// mediaCore implements the write flow shared by entities that own a stored image.
// Both upload and row write are separate backend calls; nothing is rolled back.
type mediaCore[T any] struct {
	*base
	repo   MediaRepository[T]
	images ImageStore
	get    accessors[T]
}

func (c *mediaCore[T]) upload(ctx context.Context, img *ImageFile) (string, error) {
	_, url, err := c.images.Upload(ctx, c.kind, img.Name, img.ContentType, img.Reader, img.Size)
	if err != nil {
		return "", c.fail("upload image", err)
	}
	return url, nil
}

// create uploads img and inserts item pointing at it
func (c *mediaCore[T]) create(ctx context.Context, item *T, img *ImageFile) (string, error) {
	if err := img.validate(); err != nil {
		return "", err
	}

	url, err := c.upload(ctx, img)
	if err != nil {
		return "", err
	}

	now := c.clock()
	c.get.setImage(item, url)
	c.get.stamp(item, now, now)

	id, err := c.repo.Insert(ctx, item)
	if err != nil {
		return "", c.fail("insert", err)
	}

	c.logger.Info().Str("kind", c.kind).Str("id", id).Str("image_url", url).Msg("Created")
	c.publish(ctx, "created", id, c.get.title(item), url)
	return id, nil
}

// update loads the row, lets mutate apply the patch, optionally swaps the
// image and writes the row back. The previous object is deleted after the row
// write; a failure there leaves an orphaned object and is only logged.
func (c *mediaCore[T]) update(ctx context.Context, id string, img *ImageFile, mutate func(*T)) error {
	if img != nil {
		if err := img.validate(); err != nil {
			return err
		}
	}

	current, err := c.repo.Get(ctx, id)
	if err != nil {
		return c.fail("load", err)
	}

	previousURL := c.get.imageURL(current)
	previousUpdate := c.get.updatedAt(current)
	mutate(current)

	if img != nil {
		url, err := c.upload(ctx, img)
		if err != nil {
			return err
		}
		c.get.setImage(current, url)
	}

	var created time.Time
	c.get.stamp(current, created, c.advance(previousUpdate))

	if err := c.repo.Update(ctx, id, current); err != nil {
		return c.fail("update", err)
	}

	newURL := c.get.imageURL(current)
	if img != nil && previousURL != "" && previousURL != newURL {
		if err := c.images.Delete(ctx, previousURL); err != nil {
			c.logger.Warn().Err(err).Str("kind", c.kind).Str("id", id).Str("image_url", previousURL).
				Msg("Failed to delete previous image, object is orphaned")
		}
	}

	c.logger.Info().Str("kind", c.kind).Str("id", id).Msg("Updated")
	c.publish(ctx, "updated", id, c.get.title(current), newURL)
	return nil
}

// remove fetches only the image URL, deletes the object and then the row
func (c *mediaCore[T]) remove(ctx context.Context, id string) error {
	url, err := c.repo.ImageURL(ctx, id)
	if err != nil && !isNotFound(err) {
		return c.fail("load image url", err)
	}

	if url != "" {
		if err := c.images.Delete(ctx, url); err != nil {
			return c.fail("delete image", err)
		}
	}

	if err := c.repo.Delete(ctx, id); err != nil {
		return c.fail("delete", err)
	}

	c.logger.Info().Str("kind", c.kind).Str("id", id).Msg("Deleted")
	c.publish(ctx, "deleted", id, "", url)
	return nil
}

func (c *mediaCore[T]) count(ctx context.Context) (int, error) {
	return c.repo.Count(ctx, queryAll)
}
